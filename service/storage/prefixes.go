package storage

const (
	PrefixAccount = 1
	PrefixRecord  = 2

	PrefixRecordsForAccount = 3
)
