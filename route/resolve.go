package route

import (
	"fmt"
	"sort"
	"strings"
)

// A Result is the outcome of resolving a Context against a route tree.
// Route is nil when resolution failed; Failure then says why.
type Result struct {
	Route      *Node
	Parameters Parameters
	Quality    float64
	Failure    string
}

// Succeeded reports whether the Result found a Node.
func (r Result) Succeeded() bool { return r.Route != nil }

type candidate struct {
	node *Node
	eval Evaluation
}

// Resolve searches the tree under root for the best Node matching ctx.
//
// Children are tried transparent selectors first, then by descending quality;
// ties keep registration order. A branch that dead ends backtracks into the next candidate.
// A Node terminates the search once every segment is consumed and it holds handlers,
// unless a method selector child matching the call also holds handlers.
//
// When t is not nil, every evaluation is recorded on it.
func Resolve(root *Node, ctx *Context, t *Trace) Result {
	var eval Evaluation
	if root.selector != nil {
		eval = root.selector.Evaluate(ctx, 0)
		t.record(root, root.selector, 0, eval)
		if !eval.Succeeded {
			return failure(ctx, t)
		}
	}

	node, params, quality, ok := resolveNode(root, ctx, eval.Consumed, t)
	if !ok {
		return failure(ctx, t)
	}

	res := Result{Route: node, Parameters: Parameters{}, Quality: quality}
	res.Parameters.Merge(eval.Parameters)
	res.Parameters.Merge(params)
	t.choose(res)
	return res
}

func resolveNode(n *Node, ctx *Context, index int, t *Trace) (*Node, Parameters, float64, bool) {
	if index >= len(ctx.Segments) && n.HasHandlers() {
		for _, c := range n.children {
			sel, ok := c.selector.(MethodSelector)
			if !ok || !c.HasHandlers() {
				continue
			}

			eval := sel.Evaluate(ctx, index)
			t.record(c, sel, index, eval)
			if eval.Succeeded {
				return c, nil, QualityConstant, true
			}
		}
		return n, nil, QualityConstant, true
	}

	var cands []candidate
	for _, c := range n.children {
		eval := c.selector.Evaluate(ctx, index)
		t.record(c, c.selector, index, eval)
		if eval.Succeeded {
			cands = append(cands, candidate{node: c, eval: eval})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		ti, tj := cands[i].eval.Transparent(), cands[j].eval.Transparent()
		if ti != tj {
			return ti
		}
		return cands[i].eval.Quality > cands[j].eval.Quality
	})

	for _, cand := range cands {
		node, params, quality, ok := resolveNode(cand.node, ctx, index+cand.eval.Consumed, t)
		if !ok {
			continue
		}

		if !cand.eval.Transparent() {
			quality = min(quality, cand.eval.Quality)
		}

		merged := Parameters{}
		merged.Merge(cand.eval.Parameters)
		merged.Merge(params)
		return node, merged, quality, true
	}

	return nil, nil, 0, false
}

func failure(ctx *Context, t *Trace) Result {
	dest := "/" + strings.Join(ctx.Segments, "/")
	res := Result{Failure: fmt.Sprintf("no route matches %s %s", ctx.Method, dest)}
	t.choose(res)
	return res
}
