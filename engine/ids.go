package engine

import "strconv"

// idGenerator hands out collision-free animation ids scoped to one engine
// instance. Guarded by the engine mutex; never process-wide.
type idGenerator struct {
	prefix string
	n      int64
}

func (g *idGenerator) next() string {
	g.n++
	return g.prefix + strconv.FormatInt(g.n, 10)
}
