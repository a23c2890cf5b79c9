package models

import (
	"errors"

	"github.com/puzpuzpuz/xsync/v3"
)

// DistanceTable is a concurrent-safe map title --> minimum number of forward
// hops to the target. Insertion is append-only: once a title has been assigned
// a distance, it is never overwritten, so concurrent readers never observe a
// changing value for a given key.
type DistanceTable = *xsync.MapOf[string, int]

// NewDistanceTable() returns an initialized DistanceTable
func NewDistanceTable() DistanceTable {
	return xsync.NewMapOf[string, int]()
}

// ToMap returns a regular Go map with the same key-value pairs as the DistanceTable.
// If the DistanceTable is nil, it returns a nil map. This function is used in tests
// to compare two DistanceTables using the reflect.DeepEqual
func ToMap(table DistanceTable) map[string]int {

	if table == nil {
		return nil
	}

	goMap := make(map[string]int, table.Size())
	table.Range(func(key string, value int) bool {
		goMap[key] = value
		return true
	})

	return goMap
}

//--------------------------ERROR-CODES--------------------------

var ErrNilTable = errors.New("distance table pointer is nil")
var ErrNotComputed = errors.New("node not found in the distance table")
var ErrEmptyBucket = errors.New("no nodes at this distance")
var ErrNoPredecessors = errors.New("no nodes link to this one")
