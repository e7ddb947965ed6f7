// Package spatial maps objects onto the nodes that host them and answers the
// geometric side of filter-and-refine queries.
//
// The index buckets hosting nodes into a uniform cell grid, one roaring
// bitmap per cell, so the filter phase can union the cells overlapping a
// query region instead of scanning every object.
package spatial

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/roadnet/graph"
)

// DefaultCellSize is the grid cell edge length used when none is configured.
// Road-network coordinates in the reference datasets span [0, 10000), so this
// keeps cell populations small without exploding the cell map.
const DefaultCellSize = 128.0

// ErrBadObjectLine is returned for malformed object-file lines.
var ErrBadObjectLine = errors.New("spatial: malformed object line")

// Object is one indexed object: its id, the node hosting it, and the host's
// coordinates captured at load time.
type Object struct {
	ID   uint32
	Node uint32
	X, Y float32
}

// Rect is an axis-aligned query region.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// Circle returns the bounding rect of a radius around a point.
func Circle(x, y, radius float32) Rect {
	return Rect{MinX: x - radius, MinY: y - radius, MaxX: x + radius, MaxY: y + radius}
}

type cellKey struct {
	x, y int32
}

// Index is the spatial object index. Not safe for concurrent mutation.
type Index struct {
	cellSize float32
	objects  map[uint32][]uint32 // hosting node -> object ids
	coords   map[uint32][2]float32
	cells    map[cellKey]*roaring.Bitmap // grid cell -> hosting node ids
	count    int
}

// New creates an empty index. cellSize <= 0 selects DefaultCellSize.
func New(cellSize float32) *Index {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Index{
		cellSize: cellSize,
		objects:  make(map[uint32][]uint32),
		coords:   make(map[uint32][2]float32),
		cells:    make(map[cellKey]*roaring.Bitmap),
	}
}

// Add records an object hosted at the given node and coordinates.
func (x *Index) Add(objectID, nodeID uint32, cx, cy float32) {
	x.objects[nodeID] = append(x.objects[nodeID], objectID)
	x.coords[nodeID] = [2]float32{cx, cy}
	x.count++

	key := x.cellOf(cx, cy)
	bm, ok := x.cells[key]
	if !ok {
		bm = roaring.New()
		x.cells[key] = bm
	}
	bm.Add(nodeID)
}

// Load streams `nodeId objectId` pairs from r, resolving each node through
// view to capture its coordinates. A pair referencing a nonexistent node is
// an error, not a skip: a dangling object would silently vanish from every
// query.
func (x *Index) Load(ctx context.Context, r io.Reader, view *graph.View) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("%w: line %d: want `nodeId objectId`, got %q", ErrBadObjectLine, line, text)
		}
		nodeID, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrBadObjectLine, line, err)
		}
		objectID, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrBadObjectLine, line, err)
		}

		node, err := view.Node(ctx, uint32(nodeID))
		if err != nil {
			return fmt.Errorf("object %d at line %d: %w", objectID, line, err)
		}
		x.Add(uint32(objectID), node.ID, node.X, node.Y)
	}
	return scanner.Err()
}

// ObjectsAt returns the object ids hosted at a node. The returned slice is
// owned by the index.
func (x *Index) ObjectsAt(nodeID uint32) []uint32 {
	return x.objects[nodeID]
}

// NodeCoord returns the recorded coordinates of a hosting node.
func (x *Index) NodeCoord(nodeID uint32) (cx, cy float32, ok bool) {
	c, ok := x.coords[nodeID]
	return c[0], c[1], ok
}

// NodesInRect returns the hosting nodes whose coordinates fall inside r,
// unioning the bitmaps of every overlapping grid cell and trimming the cells
// that only partially overlap.
func (x *Index) NodesInRect(r Rect) *roaring.Bitmap {
	out := roaring.New()
	if r.MinX > r.MaxX || r.MinY > r.MaxY {
		return out
	}

	lo := x.cellOf(r.MinX, r.MinY)
	hi := x.cellOf(r.MaxX, r.MaxY)
	for cy := lo.y; cy <= hi.y; cy++ {
		for cx := lo.x; cx <= hi.x; cx++ {
			bm, ok := x.cells[cellKey{x: cx, y: cy}]
			if !ok {
				continue
			}
			if cx > lo.x && cx < hi.x && cy > lo.y && cy < hi.y {
				// Interior cell: every node qualifies.
				out.Or(bm)
				continue
			}
			it := bm.Iterator()
			for it.HasNext() {
				n := it.Next()
				c := x.coords[n]
				if c[0] >= r.MinX && c[0] <= r.MaxX && c[1] >= r.MinY && c[1] <= r.MaxY {
					out.Add(n)
				}
			}
		}
	}
	return out
}

// Count returns the number of loaded objects.
func (x *Index) Count() int {
	return x.count
}

func (x *Index) cellOf(cx, cy float32) cellKey {
	return cellKey{
		x: int32(math.Floor(float64(cx / x.cellSize))),
		y: int32(math.Floor(float64(cy / x.cellSize))),
	}
}
