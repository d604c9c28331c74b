package task

type TaskOption func(*Task)

// New собирает задачу со статусом CREATED; остальные поля задаются опциями
func New(title string, created, deadline Date, options ...TaskOption) Task {
	t := Task{
		Title:    title,
		Status:   StatusCreated,
		Created:  created,
		Deadline: deadline,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&t)
		}
	}
	return t
}

func WithID(id int64) TaskOption {
	return func(task *Task) {
		task.ID = id
	}
}

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = &description
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

// WithFinished не меняет статус: связь finished и COMPLETED не проверяется
func WithFinished(finished Date) TaskOption {
	return func(task *Task) {
		task.Finished = &finished
	}
}
