package vision

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer wraps a gosseract client. Not safe for concurrent use;
// the discovery run feeds it one frame at a time.
type TesseractRecognizer struct {
	client *gosseract.Client
}

func NewTesseractRecognizer(language string) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set ocr language %q: %w", language, err)
		}
	}
	return &TesseractRecognizer{client: client}, nil
}

func (r *TesseractRecognizer) Recognize(pngData []byte) (string, error) {
	if err := r.client.SetImageFromBytes(pngData); err != nil {
		return "", fmt.Errorf("load frame into ocr engine: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

func (r *TesseractRecognizer) Close() error {
	return r.client.Close()
}
