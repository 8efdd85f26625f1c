// Package store persists rendered scenes so they can be listed and fetched
// again later, by the serve API and by anything else that wants a catalog of
// past renders.
//
// Two backends:
//   - [MemoryStore] for tests and single-process development
//   - [MongoStore] for deployments, persisting the documents as BSON
//
// A record carries the graph document, the computed layout and optionally
// the rendered SVG, so a stored scene can be re-rendered with different
// styles without re-running layout.
package store

import (
	"context"
	"time"

	"github.com/antopio26/graph-js/pkg/graphio"
)

// Record is one stored scene.
type Record struct {
	ID        string                  `json:"id" bson:"_id"`
	Name      string                  `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time               `json:"created_at" bson:"created_at"`
	Graph     *graphio.Document       `json:"graph,omitempty" bson:"graph,omitempty"`
	Layout    *graphio.LayoutDocument `json:"layout,omitempty" bson:"layout,omitempty"`
	SVG       []byte                  `json:"svg,omitempty" bson:"svg,omitempty"`
}

// RecordInfo is the listing view of a record: everything but the payload.
type RecordInfo struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface scene storage backends implement.
//
// Put assigns the record an ID and a creation time when they are empty and
// returns the ID. Get and Delete report a missing record with a
// SCENE_NOT_FOUND coded error. List returns summaries, newest first.
type Store interface {
	Put(ctx context.Context, rec *Record) (string, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]RecordInfo, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
