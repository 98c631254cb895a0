// Package progress вычисляет состояние проекта по его этапам.
// Здесь нет ввода-вывода: все функции возвращают новые срезы и не меняют входные.
package progress

import (
	"errors"
	"fmt"

	"agency-portal/internal/models"
)

var ErrInvalidPercentage = errors.New("completion percentage must be between 0 and 100")

type Aggregate struct {
	TotalProgress int
	IsCompleted   bool
}

// DeriveStatus: 0 -> pending, 100 -> completed, остальное -> in-progress.
func DeriveStatus(pct int) (models.StageStatus, error) {
	switch {
	case pct < 0 || pct > 100:
		return "", fmt.Errorf("%w: got %d", ErrInvalidPercentage, pct)
	case pct == 0:
		return models.StagePending, nil
	case pct == 100:
		return models.StageCompleted, nil
	default:
		return models.StageInProgress, nil
	}
}

// InitialStages возвращает шесть этапов нового проекта, все 0% / pending.
func InitialStages() []models.Stage {
	stages := make([]models.Stage, len(models.StageNames))
	for i, name := range models.StageNames {
		stages[i] = models.Stage{
			Name:      name,
			Status:    models.StagePending,
			SortOrder: i,
		}
	}
	return stages
}

// ApplyStageUpdate выставляет процент и статус этапу с именем name.
// Если такого этапа нет, возвращается копия stages без изменений и found=false.
func ApplyStageUpdate(stages []models.Stage, name string, pct int) (out []models.Stage, found bool, err error) {
	status, err := DeriveStatus(pct)
	if err != nil {
		return nil, false, err
	}

	out = make([]models.Stage, len(stages))
	copy(out, stages)
	for i := range out {
		if out[i].Name == name {
			out[i].CompletionPercentage = pct
			out[i].Status = status
			found = true
		}
	}
	return out, found, nil
}

// ComputeAggregate: среднее по этапам, округлённое half-up; для пустого списка 0/false.
func ComputeAggregate(stages []models.Stage) Aggregate {
	if len(stages) == 0 {
		return Aggregate{}
	}

	sum := 0
	completed := true
	for _, s := range stages {
		sum += s.CompletionPercentage
		if s.CompletionPercentage != 100 {
			completed = false
		}
	}

	n := len(stages)
	// floor(sum/n + 1/2) в целых числах
	total := (2*sum + n) / (2 * n)

	return Aggregate{TotalProgress: total, IsCompleted: completed}
}

// MarkAllComplete переводит все этапы в 100% / completed.
func MarkAllComplete(stages []models.Stage) []models.Stage {
	out := make([]models.Stage, len(stages))
	copy(out, stages)
	for i := range out {
		out[i].CompletionPercentage = 100
		out[i].Status = models.StageCompleted
	}
	return out
}
