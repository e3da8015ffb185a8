package port

import "github.com/coursemark/coursemark/internal/domain/entity"

// ScheduleSource reads the expected lecture sequence from a tabular course
// schedule.
type ScheduleSource interface {
	Load(path string) ([]entity.Lecture, error)
}
