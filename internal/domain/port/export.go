package port

import "github.com/coursemark/coursemark/internal/domain/entity"

// ResultExporter writes the per-lecture timestamp table. Entries are ordered
// 1:1 with the lectures.
type ResultExporter interface {
	Export(path string, lectures []entity.Lecture, entries []entity.TimestampEntry) error
}
