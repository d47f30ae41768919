package ports

// Classifier is the contract for the external classification collaborators
// (k-NN, top-scoring-pairs, SVM). Training observations are sample vectors of
// expression values, one per sample, with a binary class label each.
//
// An SVM implementation is intentionally not provided in-repo; the interface
// is what the resampling machinery needs from one.
type Classifier interface {
	// Name identifies the classifier in result artifacts.
	Name() string

	// Train fits the classifier on samples (rows) x features (columns).
	Train(samples [][]float64, labels []int) error

	// Predict returns the class label for one sample vector.
	Predict(sample []float64) (int, error)
}
