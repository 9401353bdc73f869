// Package smoke exercises a running deployment the way an operator would
// after starting it: one named check per concern, run in order.
package smoke

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/client"
	"github.com/mrsingh-rishi/voice-translate/pipeline"
	"github.com/mrsingh-rishi/voice-translate/queue"
	"github.com/mrsingh-rishi/voice-translate/stt"
)

// Env is what checks run against. Local components may be nil when only
// server checks are run.
type Env struct {
	Client      *client.Client
	FrontendURL string

	STT        stt.Transcriber
	Translator pipeline.Translator
	Speaker    pipeline.Speaker
	TempDir    string
}

func (e *Env) tempDir() string {
	if e.TempDir != "" {
		return e.TempDir
	}
	return os.TempDir()
}

// Report is the outcome of one check.
type Report struct {
	Name     string
	Passed   bool
	Detail   string
	Notes    []string
	Duration time.Duration
}

// Notef records a progress line shown under the check's result.
func (r *Report) Notef(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

type Check struct {
	Name string
	Run  func(ctx context.Context, env *Env, rep *Report) error
}

// ErrUnknownCheck is returned by Lookup.
var ErrUnknownCheck = errors.New("unknown check")

var registry = map[string]Check{
	"pipeline":  {Name: "pipeline", Run: checkPipeline},
	"final":     {Name: "final", Run: checkFinal},
	"multiuser": {Name: "multiuser", Run: checkMultiUser},
	"rooms":     {Name: "rooms", Run: checkRooms},
	"live":      {Name: "live", Run: checkLive},
	"status":    {Name: "status", Run: checkStatus},
	"system":    {Name: "system", Run: checkSystem},
}

// ServerChecks is what "all" expands to.
var ServerChecks = []string{"status", "pipeline", "final", "multiuser", "rooms", "live"}

// Names lists every registered check.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves check names; "all" expands to ServerChecks.
func Lookup(names ...string) ([]Check, error) {
	var out []Check
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "all" {
			for _, s := range ServerChecks {
				out = append(out, registry[s])
			}
			continue
		}
		c, ok := registry[n]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCheck, "%q (known: %s)", n, strings.Join(Names(), ", "))
		}
		out = append(out, c)
	}
	return out, nil
}

type Runner struct {
	env    *Env
	checks *queue.Queue[Check]
	logger *zap.SugaredLogger
}

func NewRunner(env *Env, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{env: env, checks: queue.New[Check](), logger: logger}
}

func (r *Runner) Add(checks ...Check) {
	for _, c := range checks {
		r.checks.Enqueue(c)
	}
}

// Run executes queued checks one at a time. A failed check does not stop
// the rest; a cancelled ctx does.
func (r *Runner) Run(ctx context.Context) []Report {
	reports := make([]Report, 0, r.checks.Len())
	for {
		c, ok := r.checks.Dequeue()
		if !ok {
			return reports
		}
		if ctx.Err() != nil {
			reports = append(reports, Report{Name: c.Name, Detail: ctx.Err().Error()})
			continue
		}

		r.logger.Infof("🧪 running %s", c.Name)
		rep := Report{Name: c.Name}
		start := time.Now()
		err := c.Run(ctx, r.env, &rep)
		rep.Duration = time.Since(start)
		rep.Passed = err == nil
		if err != nil {
			rep.Detail = err.Error()
			r.logger.Warnf("❌ %s: %v", c.Name, err)
		}
		reports = append(reports, rep)
	}
}

// Print writes one line per report plus a summary and reports whether
// everything passed.
func Print(w io.Writer, reports []Report) bool {
	passed := 0
	for _, rep := range reports {
		if rep.Passed {
			passed++
			fmt.Fprintf(w, "✅ %s\n", rep.Name)
		} else {
			fmt.Fprintf(w, "❌ %s: %s\n", rep.Name, rep.Detail)
		}
		for _, n := range rep.Notes {
			fmt.Fprintf(w, "   %s\n", n)
		}
	}
	fmt.Fprintf(w, "\n📊 Results: %d/%d passed\n", passed, len(reports))
	if passed == len(reports) {
		fmt.Fprintln(w, "🎉 All checks passed!")
		return true
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Check the server logs.")
	return false
}
