package graphstore

import (
	"context"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/voyago/tripgraph/log"
)

// fakeQuerier answers reads by cypher substring match and records every
// statement, so lookup logic is testable without a live server.
type fakeQuerier struct {
	mu sync.Mutex

	// responses maps a cypher substring to the records returned for it.
	responses map[string][]*neo4j.Record
	// errors maps a cypher substring to a forced error.
	errors map[string]error

	reads  []string
	writes []string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		responses: make(map[string][]*neo4j.Record),
		errors:    make(map[string]error),
	}
}

func (q *fakeQuerier) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.reads = append(q.reads, cypher)

	for substr, err := range q.errors {
		if strings.Contains(cypher, substr) {
			return nil, err
		}
	}
	for substr, records := range q.responses {
		if strings.Contains(cypher, substr) {
			return records, nil
		}
	}
	return nil, nil
}

func (q *fakeQuerier) write(ctx context.Context, cypher string, params map[string]any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.writes = append(q.writes, cypher)

	for substr, err := range q.errors {
		if strings.Contains(cypher, substr) {
			return err
		}
	}
	return nil
}

func newTestClient(q querier) *Client {
	return &Client{
		logger: &log.NoOpLogger{},
		run:    q,
	}
}

// nodeRecord builds a record carrying a location node, with an optional
// full-text score column.
func nodeRecord(props map[string]any, score ...float64) *neo4j.Record {
	keys := []string{"node"}
	values := []any{dbtype.Node{Props: props}}
	if len(score) > 0 {
		keys = append(keys, "score")
		values = append(values, score[0])
	}
	return &neo4j.Record{Keys: keys, Values: values}
}
