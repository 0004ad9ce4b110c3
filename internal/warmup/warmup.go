package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/casing"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/delimiter"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// WarmupConfig defines configuration for warming up a session before its
// first keystroke
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration. Keyboards
// warm up while the view appears, so the budget is small.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    min(runtime.NumCPU(), 4),
		Iterations:     100,
		SampleTextSize: 256,
		Duration:       250 * time.Millisecond,
		ForceGC:        false,
	}
}

// Manager handles session warmup operations
type Manager struct {
	logger      ports.Logger
	normalizers []ports.Normalizer
	casers      []*casing.Analyzer
	delimiters  []*delimiter.Analyzer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterCaser adds a casing analyzer whose caser pools should be filled
func (wm *Manager) RegisterCaser(c *casing.Analyzer) {
	wm.casers = append(wm.casers, c)
}

// RegisterDelimiters adds delimiter tables to be exercised
func (wm *Manager) RegisterDelimiters(d *delimiter.Analyzer) {
	wm.delimiters = append(wm.delimiters, d)
}

// WarmUp runs the warmup process for all registered components. It
// returns the number of completed iterations.
func (wm *Manager) WarmUp(ctx context.Context) int {
	startTime := time.Now()
	wm.logger.Debug("Starting session warmup",
		"components", len(wm.normalizers)+len(wm.casers)+len(wm.delimiters),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	sample := generateSampleText(wm.config.SampleTextSize)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 0
			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-warmupCtx.Done():
					mu.Lock()
					total += n
					mu.Unlock()
					return
				default:
				}
				wm.runOnce(sample)
				n++
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Debug("Session warmup completed",
		"duration", time.Since(startTime),
		"iterations", total,
	)
	return total
}

// runOnce exercises every registered component on sample the way a
// keystroke does.
func (wm *Manager) runOnce(sample string) {
	for _, n := range wm.normalizers {
		_ = n.Normalize(sample)
	}
	for _, c := range wm.casers {
		_ = c.CaseAdjusted("keyboard", "Key")
		_ = c.IsUppercased(sample)
	}
	for _, d := range wm.delimiters {
		_ = d.IsLastSentenceEnded(sample)
		_ = d.HasUnclosedQuotation(sample)
		_, _ = d.PreferredQuotationReplacement(sample, `"`)
	}
}

// generateSampleText creates sample text of roughly the specified size
func generateSampleText(size int) string {
	words := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"hello", "world", "\"quoted\"", "café", "déjà", "vu", "Straße",
	}

	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i%len(words)])
		if i%9 == 8 {
			sb.WriteString(".")
		}
	}
	return sb.String()
}
