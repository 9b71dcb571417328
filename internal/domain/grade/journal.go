package grade

// JournalEntry - строка журнала: оценка вместе с именами ученика и предмета.
type JournalEntry struct {
	Grade       *Grade
	StudentName string
	ClassGroup  string
	SubjectName string
}
