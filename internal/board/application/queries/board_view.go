package queries

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/focusboard/internal/board/domain/task"
)

// BoardRow is one tier row of the board view.
type BoardRow struct {
	Tier  task.Tier `json:"tier"`
	Tasks []TaskDTO `json:"tasks"`
}

// BoardView groups tasks into the four tier rows the client renders. Rows
// are ordered by urgency; tasks within a row by their meta position, then
// display order.
type BoardView struct {
	Rows []BoardRow `json:"rows"`
	// NextTier is where an un-prioritized new task would land: the first
	// tier with fewer than five uncompleted members.
	NextTier task.Tier `json:"next_tier"`
	// Remaining counts uncompleted tasks across the whole board.
	Remaining int `json:"remaining"`
}

// BoardViewHandler builds the tier presentation of the board.
type BoardViewHandler struct {
	taskRepo task.Repository
}

// NewBoardViewHandler creates a new BoardViewHandler.
func NewBoardViewHandler(taskRepo task.Repository) *BoardViewHandler {
	return &BoardViewHandler{taskRepo: taskRepo}
}

// Handle executes the query.
func (h *BoardViewHandler) Handle(ctx context.Context) (*BoardView, error) {
	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byTier := make(map[task.Tier][]*task.Task, len(task.Tiers))
	uncompleted := make(map[task.Tier]int, len(task.Tiers))
	remaining := 0

	for _, t := range tasks {
		tier := t.TierOf()
		byTier[tier] = append(byTier[tier], t)
		if !t.Completed() {
			uncompleted[tier]++
			remaining++
		}
	}

	view := &BoardView{
		Rows:      make([]BoardRow, 0, len(task.Tiers)),
		NextTier:  task.NextTier(uncompleted),
		Remaining: remaining,
	}

	for _, tier := range task.Tiers {
		row := byTier[tier]
		sort.SliceStable(row, func(i, j int) bool {
			pi, pj := row[i].PositionOf(), row[j].PositionOf()
			if pi != pj {
				return pi < pj
			}
			return row[i].DisplayOrder() < row[j].DisplayOrder()
		})
		view.Rows = append(view.Rows, BoardRow{Tier: tier, Tasks: toTaskDTOs(row)})
	}

	return view, nil
}
