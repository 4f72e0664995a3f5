// Package cache is the semantic answer cache. Queries whose embeddings land
// close enough to a previously answered one reuse the stored answer instead
// of running retrieval and generation again.
package cache

import "context"

type AnswerCache interface {
	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error
}
