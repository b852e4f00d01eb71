package domain

// ProgressFunc reports listing progress while walking pages.
// Called once per page: (20, 1302), (40, 1302), ...
type ProgressFunc func(loaded, total int)
