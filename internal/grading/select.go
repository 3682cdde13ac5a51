package grading

// SelectFile picks the file to grade out of a student's submissions: the
// first one in the order given. Any further files are ignored.
// TODO: ask course staff whether several files should be rejected instead of
// silently grading the first.
func SelectFile(files []string) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}
