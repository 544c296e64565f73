package utils

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
)

// BBoxListPool is a pool of reusable BBox slices
var BBoxListPool = sync.Pool{
	New: func() interface{} {
		s := make([]cube.BBox, 0, 32)
		return &s
	},
}

// GetBBoxList retrieves a BBox slice from the pool
func GetBBoxList() *[]cube.BBox {
	list := BBoxListPool.Get().(*[]cube.BBox)
	*list = (*list)[:0]
	return list
}

// PutBBoxList returns a BBox slice to the pool
func PutBBoxList(list *[]cube.BBox) {
	if list != nil {
		*list = (*list)[:0]
		BBoxListPool.Put(list)
	}
}
