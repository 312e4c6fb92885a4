package export

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/san-kum/wavesim/internal/cascade"
)

// Variables written by WriteNetCDF, in file order, with the displacement
// channel each one holds.
var netcdfVars = []struct {
	name    string
	channel int
	units   string
}{
	{"height", cascade.ChanHeight, "m"},
	{"dx", cascade.ChanDx, "m"},
	{"dz", cascade.ChanDz, "m"},
	{"foam", cascade.ChanFoam, "1"},
}

// WriteNetCDF stores one cascade field as a NetCDF4 file with coordinate
// variables x and y in meters and one float variable per displacement channel.
func WriteNetCDF(path string, f *cascade.Field, lengthScale float64) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer ds.Close()

	yDim, err := ds.AddDim("y", uint64(f.Size))
	if err != nil {
		return err
	}
	xDim, err := ds.AddDim("x", uint64(f.Size))
	if err != nil {
		return err
	}

	xVar, err := ds.AddVar("x", netcdf.DOUBLE, []netcdf.Dim{xDim})
	if err != nil {
		return err
	}
	yVar, err := ds.AddVar("y", netcdf.DOUBLE, []netcdf.Dim{yDim})
	if err != nil {
		return err
	}

	vars := make([]netcdf.Var, len(netcdfVars))
	for i, nv := range netcdfVars {
		v, err := ds.AddVar(nv.name, netcdf.FLOAT, []netcdf.Dim{yDim, xDim})
		if err != nil {
			return err
		}
		if err := v.Attr("units").WriteBytes([]byte(nv.units)); err != nil {
			return err
		}
		vars[i] = v
	}
	if err := ds.Attr("time").WriteFloat64s([]float64{f.Time}); err != nil {
		return err
	}
	if err := ds.Attr("length_scale").WriteFloat64s([]float64{lengthScale}); err != nil {
		return err
	}

	if err := ds.EndDef(); err != nil {
		return err
	}

	coords := make([]float64, f.Size)
	for i := range coords {
		coords[i] = float64(i) * lengthScale / float64(f.Size)
	}
	if err := xVar.WriteFloat64s(coords); err != nil {
		return err
	}
	if err := yVar.WriteFloat64s(coords); err != nil {
		return err
	}

	buf := make([]float32, f.Size*f.Size)
	for i, nv := range netcdfVars {
		for j := range buf {
			buf[j] = f.Displacement[j*cascade.Channels+nv.channel]
		}
		if err := vars[i].WriteFloat32s(buf); err != nil {
			return fmt.Errorf("export: write %s: %w", nv.name, err)
		}
	}
	return nil
}

// ReadNetCDFVar reads one float variable written by WriteNetCDF.
func ReadNetCDFVar(path, name string) ([]float32, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	v, err := ds.Var(name)
	if err != nil {
		return nil, err
	}
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	if err := v.ReadFloat32s(out); err != nil {
		return nil, err
	}
	return out, nil
}
