package grade

import (
	"math"

	"github.com/school-journal/journal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// Summary - агрегированная успеваемость ученика.
type Summary struct {
	// Count - количество учтённых оценок.
	Count int

	// Average - средний балл по всем оценкам, округлённый до 2 знаков.
	Average float64

	// Subjects - средний балл по каждому предмету (ключ - название предмета).
	// По умолчанию не округляется.
	Subjects map[string]float64
}

// StatsOptions настраивает расчёт статистики.
type StatsOptions struct {
	// RoundSubjectAverages округляет средние по предметам так же, как общий средний балл.
	RoundSubjectAverages bool
}

// ComputeStats считает статистику по оценкам ученика.
// subjectNames сопоставляет ID предмета с его названием; предметы без
// названия группируются по строковому ID.
// Возвращает false, если оценок нет.
func ComputeStats(grades []*Grade, subjectNames map[shared.ID]string, opts StatsOptions) (Summary, bool) {
	if len(grades) == 0 {
		return Summary{}, false
	}

	type acc struct {
		sum   int
		count int
	}

	total := 0
	bySubject := make(map[string]*acc)
	for _, g := range grades {
		total += int(g.Value)

		name, ok := subjectNames[g.SubjectID]
		if !ok {
			name = g.SubjectID.String()
		}
		a, ok := bySubject[name]
		if !ok {
			a = &acc{}
			bySubject[name] = a
		}
		a.sum += int(g.Value)
		a.count++
	}

	subjects := make(map[string]float64, len(bySubject))
	for name, a := range bySubject {
		avg := float64(a.sum) / float64(a.count)
		if opts.RoundSubjectAverages {
			avg = Round2(avg)
		}
		subjects[name] = avg
	}

	return Summary{
		Count:    len(grades),
		Average:  Round2(float64(total) / float64(len(grades))),
		Subjects: subjects,
	}, true
}

// Round2 округляет до 2 знаков после запятой, половину - от нуля.
// 4.125 -> 4.13, 4.666... -> 4.67.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
