package page

const (
	DefaultSize = 20
	MaxSize     = 2000
)

// Page - срез упорядоченного списка вместе с метаданными пагинации.
// Формат полей совпадает с тем, что ожидают клиенты API
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// Of вырезает страницу number (с нуля) размера size из items.
// totalElements всегда равен len(items), даже если страница пуста
func Of[T any](items []T, number, size int) Page[T] {
	if size < 1 {
		size = DefaultSize
	}
	if number < 0 {
		number = 0
	}

	total := len(items)
	content := []T{}

	start := number * size
	if start < total {
		end := min(start+size, total)
		content = append(content, items[start:end]...)
	}

	totalPages := (total + size - 1) / size

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           number,
		Size:             size,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             number+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// Map переносит метаданные страницы, преобразуя содержимое
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	content := make([]R, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return Page[R]{
		Content:          content,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
