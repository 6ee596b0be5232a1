//go:build pathsolver

package path

/*
#cgo LDFLAGS: -lpath

#include <stdlib.h>

typedef int (*path_f_cb)(int n, double *z, double *f);
typedef int (*path_j_cb)(int n, int nnz, double *z, int *col, int *len, int *row, double *data);

extern int pmcp_path_solve(int n, int nnz, double *lb, double *ub, double *z0,
                            path_f_cb f, path_j_cb j,
                            int constant_jac_structure, int jacobian_data_contiguous,
                            int silent, int n_linear, const int *linear_idx,
                            double *z_out, int *status_out);
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/parametric-mcp/pmcp/mcp"
)

// CGODriver binds the real PATH solver through its native callback-based
// C interface, grounded on the #cgo LDFLAGS / import "C" shape of
// bartolsthoorn-gohighs's HiGHS binding. It is only compiled with the
// "pathsolver" build tag, since it requires the PATH shared library to
// be present at link time.
//
// PATH's callback typedefs carry no user-data pointer, so the active
// call's F/J closures are published to a package-level variable guarded
// by activeMu instead of threaded through a cgo.Handle argument; this
// is safe because Solve holds activeMu for its entire C call and PATH's
// C ABI is itself synchronous, single-call-at-a-time.
type CGODriver struct{}

// NewCGODriver returns a driver backed by the real PATH binary.
func NewCGODriver() *CGODriver { return &CGODriver{} }

func (*CGODriver) Name() string { return "path-cgo" }

var (
	activeMu sync.Mutex
	active   *cgoCallbacks
)

type cgoCallbacks struct {
	f FCallback
	j JCallback
}

//export pmcp_invoke_f
func pmcp_invoke_f(n C.int, z, out *C.double) C.int {
	zs := unsafe.Slice((*float64)(unsafe.Pointer(z)), int(n))
	os := unsafe.Slice((*float64)(unsafe.Pointer(out)), int(n))
	return C.int(active.f(int(n), zs, os))
}

//export pmcp_invoke_j
func pmcp_invoke_j(n, nnz C.int, z *C.double, col, length, row *C.int, data *C.double) C.int {
	zs := unsafe.Slice((*float64)(unsafe.Pointer(z)), int(n))
	cs := unsafe.Slice((*int32)(unsafe.Pointer(col)), int(n))
	ls := unsafe.Slice((*int32)(unsafe.Pointer(length)), int(n))
	rs := unsafe.Slice((*int32)(unsafe.Pointer(row)), int(nnz))
	ds := unsafe.Slice((*float64)(unsafe.Pointer(data)), int(nnz))
	colInt := int32SliceToInt(cs)
	lenInt := int32SliceToInt(ls)
	rowInt := int32SliceToInt(rs)
	status := active.j(int(n), int(nnz), zs, colInt, lenInt, rowInt, ds)
	copyIntToInt32(cs, colInt)
	copyIntToInt32(ls, lenInt)
	copyIntToInt32(rs, rowInt)
	return C.int(status)
}

func int32SliceToInt(s []int32) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(v)
	}
	return out
}

func copyIntToInt32(dst []int32, src []int) {
	for i, v := range src {
		dst[i] = int32(v)
	}
}

func (d *CGODriver) Solve(n, nnz int, lb, ub, z0 []float64, f FCallback, j JCallback, hints SolveHints) ([]float64, mcp.Status, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = &cgoCallbacks{f: f, j: j}
	defer func() { active = nil }()

	z := make([]float64, n)
	var cStatus C.int

	constStruct := boolToCInt(hints.ConstantJacobianStructure)
	contiguous := boolToCInt(hints.JacobianDataContiguous)
	silent := boolToCInt(!hints.Verbose)

	linear := intSliceToInt32(hints.LinearEntries)
	var linearPtr *C.int
	if len(linear) > 0 {
		linearPtr = (*C.int)(unsafe.Pointer(&linear[0]))
	}

	C.pmcp_path_solve(
		C.int(n), C.int(nnz),
		(*C.double)(unsafe.Pointer(&lb[0])),
		(*C.double)(unsafe.Pointer(&ub[0])),
		(*C.double)(unsafe.Pointer(&z0[0])),
		(C.path_f_cb)(unsafe.Pointer(C.pmcp_invoke_f)),
		(C.path_j_cb)(unsafe.Pointer(C.pmcp_invoke_j)),
		constStruct, contiguous, silent,
		C.int(len(linear)), linearPtr,
		(*C.double)(unsafe.Pointer(&z[0])),
		&cStatus,
	)
	return z, cgoStatus(int(cStatus)), nil
}

func boolToCInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func intSliceToInt32(s []int) []int32 {
	out := make([]int32, len(s))
	for i, v := range s {
		out[i] = int32(v)
	}
	return out
}

func cgoStatus(code int) mcp.Status {
	switch code {
	case 0:
		return mcp.Solved
	case 1:
		return mcp.MajorIterationLimit
	case 2:
		return mcp.MinorIterationLimit
	case 3:
		return mcp.TimeLimit
	case 4:
		return mcp.UserInterrupt
	case 5:
		return mcp.BoundError
	case 6:
		return mcp.DomainError
	case 7:
		return mcp.Infeasible
	default:
		return mcp.OtherError
	}
}
