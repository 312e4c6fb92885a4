package wavefield_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWavefield(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wavefield Suite")
}
