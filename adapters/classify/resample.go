package classify

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"diffexpr/domain/core"
	"diffexpr/ports"
)

// Factory builds a fresh classifier instance for each resampling round so
// training state never leaks between folds.
type Factory func() ports.Classifier

// Resampler estimates classifier accuracy by cross-validation or bootstrap
// resampling, with all randomness drawn from named seeded streams.
type Resampler struct {
	rng ports.RNGPort
}

// NewResampler creates a resampler drawing randomness from the given port.
func NewResampler(rng ports.RNGPort) *Resampler {
	return &Resampler{rng: rng}
}

// CrossValidate runs k-fold cross-validation and returns the overall
// accuracy: correct held-out predictions over total samples. The sample
// permutation is seeded; folds are evaluated in parallel.
func (r *Resampler) CrossValidate(ctx context.Context, factory Factory, samples [][]float64, labels []int, folds int, seed int64) (float64, error) {
	if len(samples) == 0 {
		return 0, core.ErrInsufficientData
	}
	if len(labels) != len(samples) {
		return 0, core.NewDimensionMismatchError("labels", len(labels), len(samples))
	}
	if folds < 2 || folds > len(samples) {
		return 0, core.NewInvalidDesignError("fold count must be in [2, sample count]")
	}

	perm := rand.New(r.rng.Stream("crossvalidate", seed)).Perm(len(samples))

	// Each fold writes only its own slot; no locking needed.
	correct := make([]int, folds)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for fold := 0; fold < folds; fold++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			holdout := map[int]bool{}
			for pos, idx := range perm {
				if pos%folds == fold {
					holdout[idx] = true
				}
			}

			train, trainLabels := make([][]float64, 0, len(samples)), make([]int, 0, len(samples))
			for i, s := range samples {
				if !holdout[i] {
					train = append(train, s)
					trainLabels = append(trainLabels, labels[i])
				}
			}

			clf := factory()
			if err := clf.Train(train, trainLabels); err != nil {
				return err
			}
			for i, s := range samples {
				if !holdout[i] {
					continue
				}
				pred, err := clf.Predict(s)
				if err != nil {
					return err
				}
				if pred == labels[i] {
					correct[fold]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range correct {
		total += c
	}
	return float64(total) / float64(len(samples)), nil
}

// Bootstrap runs B bootstrap rounds: each round trains on a with-replacement
// resample and scores the out-of-bag samples. Rounds with an empty out-of-bag
// set or a single-class resample are redrawn deterministically from the same
// stream. Returns the mean out-of-bag accuracy.
func (r *Resampler) Bootstrap(ctx context.Context, factory Factory, samples [][]float64, labels []int, rounds int, seed int64) (float64, error) {
	if len(samples) < 2 {
		return 0, core.ErrInsufficientData
	}
	if len(labels) != len(samples) {
		return 0, core.NewDimensionMismatchError("labels", len(labels), len(samples))
	}
	if rounds < 1 {
		return 0, core.NewInvalidDesignError("bootstrap rounds must be positive")
	}

	rng := rand.New(r.rng.Stream("bootstrap", seed))

	sum := 0.0
	done := 0
	for attempts := 0; done < rounds && attempts < rounds*10; attempts++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		inBag := make([]int, len(samples))
		train, trainLabels := make([][]float64, 0, len(samples)), make([]int, 0, len(samples))
		for i := 0; i < len(samples); i++ {
			idx := rng.IntN(len(samples))
			inBag[idx]++
			train = append(train, samples[idx])
			trainLabels = append(trainLabels, labels[idx])
		}
		if !twoClasses(trainLabels) || allInBag(inBag) {
			continue
		}

		clf := factory()
		if err := clf.Train(train, trainLabels); err != nil {
			return 0, err
		}

		oobCorrect, oobTotal := 0, 0
		for i, s := range samples {
			if inBag[i] > 0 {
				continue
			}
			pred, err := clf.Predict(s)
			if err != nil {
				return 0, err
			}
			oobTotal++
			if pred == labels[i] {
				oobCorrect++
			}
		}
		sum += float64(oobCorrect) / float64(oobTotal)
		done++
	}
	if done == 0 {
		return 0, core.ErrInsufficientData
	}
	return sum / float64(done), nil
}

func twoClasses(labels []int) bool {
	seen0, seen1 := false, false
	for _, l := range labels {
		if l == 0 {
			seen0 = true
		} else {
			seen1 = true
		}
	}
	return seen0 && seen1
}

func allInBag(inBag []int) bool {
	for _, c := range inBag {
		if c == 0 {
			return false
		}
	}
	return true
}
