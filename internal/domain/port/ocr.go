package port

// TextRecognizer extracts whatever text an OCR engine can read from a
// PNG-encoded image. Implementations hold engine resources and must be
// closed; they are used by one goroutine at a time.
type TextRecognizer interface {
	Recognize(png []byte) (string, error)
	Close() error
}
