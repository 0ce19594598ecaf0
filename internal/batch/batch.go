// Package batch converts many syntax trees in parallel.
//
// Each job gets its own conversion context and id, so jobs never share
// chapter state or log attribution. Finished results are cached by a digest
// of the source text and tree shape; converting the same input twice within
// the cache TTL returns a copy of the earlier result. Expired results are
// pruned whenever a new one is stored.
package batch

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/usj/core/convert"
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
	"github.com/FocuswithJustin/usj/internal/cache"
	"github.com/FocuswithJustin/usj/internal/logging"
)

// progressEvery is how often, in finished jobs, progress is logged.
const progressEvery = 50

// Job is one tree to convert.
type Job struct {
	Name string
	Tree *syntax.Tree
}

// Result is the outcome of a Job.
type Result struct {
	Name     string
	Digest   string
	Result   *convert.Result
	Err      error
	Cached   bool
	Duration time.Duration
}

type indexed struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Runner converts jobs with a shared converter and result cache.
type Runner struct {
	conv    *convert.Converter
	workers int
	cache   *cache.TTLCache[string, *convert.Result]
}

// NewRunner returns a Runner using conv with the given number of workers
// (non-positive means one per CPU). Results are cached for ttl; zero keeps
// them until the Runner is dropped.
func NewRunner(conv *convert.Converter, workers int, ttl time.Duration) *Runner {
	if conv == nil {
		conv = convert.New(convert.DefaultOptions())
	}
	return &Runner{
		conv:    conv,
		workers: workers,
		cache:   cache.New[string, *convert.Result](ttl),
	}
}

// Run converts jobs and returns their results in job order. A cancelled
// ctx fails the jobs that have not started yet.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	pool := NewWorkerPool[indexed, indexedResult](r.workers, len(jobs))
	logging.Debug("batch started", "jobs", len(jobs), "workers", pool.Workers(),
		"ignore_errors", r.conv.Options().IgnoreErrors)
	pool.Start(func(j indexed) indexedResult {
		return indexedResult{index: j.index, result: r.convert(ctx, j.job)}
	})
	for i, job := range jobs {
		pool.Submit(indexed{index: i, job: job})
	}
	pool.Close()

	done, failed := 0, 0
	for res := range pool.Results() {
		results[res.index] = res.result
		done++
		if res.result.Err != nil {
			failed++
		}
		if done%progressEvery == 0 || done == len(jobs) {
			logging.BatchProgress(done, len(jobs), failed, "workers", pool.Workers())
		}
	}
	return results
}

func (r *Runner) convert(ctx context.Context, job Job) Result {
	res := Result{Name: job.Name}
	if err := ctx.Err(); err != nil {
		res.Err = errors.Wrapf(err, "job %s not started", job.Name)
		return res
	}

	start := time.Now()
	digest, err := Digest(job.Tree)
	if err != nil {
		res.Err = err
		return res
	}
	res.Digest = digest
	if cached, ok := r.cache.Get(digest); ok {
		res.Result = &convert.Result{Document: cloneDocument(cached.Document), Diagnostics: cached.Diagnostics}
		res.Cached = true
		return res
	}

	jobCtx := logging.WithSource(logging.WithConversionID(ctx, logging.NewConversionID()), job.Name)
	out, err := r.conv.Convert(jobCtx, job.Tree)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		logging.WarnContext(jobCtx, "conversion failed", "error", err)
		return res
	}
	res.Result = out
	if pruned := r.cache.Prune(); pruned > 0 {
		logging.DebugContext(jobCtx, "pruned expired results", "count", pruned)
	}
	r.cache.Set(digest, out)
	return res
}

// cloneDocument copies doc so a cache hit can be changed without touching
// the cached result.
func cloneDocument(doc *usj.Document) *usj.Document {
	cp := *doc
	cp.Content = usj.Clone(doc.Content)
	return &cp
}

// Digest returns the hex blake3 digest of tree's source text and node
// layout.
func Digest(tree *syntax.Tree) (string, error) {
	if tree == nil || tree.Root == nil {
		return "", &errors.MissingTreeError{Reason: "no tree supplied"}
	}
	h := blake3.New()
	var buf [binary.MaxVarintLen64]byte
	writeUint := func(v uint64) {
		n := binary.PutUvarint(buf[:], v)
		h.Write(buf[:n])
	}

	writeUint(uint64(len(tree.Source)))
	h.Write(tree.Source)

	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		kind := n.Kind()
		writeUint(uint64(len(kind)))
		h.Write([]byte(kind))
		writeUint(uint64(n.StartByte()))
		writeUint(uint64(n.EndByte()))
		missing := uint64(0)
		if m, ok := n.(syntax.MissingNode); ok && m.IsMissing() {
			missing = 1
		}
		writeUint(missing)
		children := syntax.Children(n)
		writeUint(uint64(len(children)))
		for _, c := range children {
			walk(c)
		}
	}
	walk(tree.Root)
	return hex.EncodeToString(h.Sum(nil)), nil
}
