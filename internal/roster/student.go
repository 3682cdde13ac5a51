package roster

import "strings"

// Student is identified by LoginID; Name is for display only. Students are
// used whole as map and set keys, which is sound because Load rejects a
// roster listing the same login id twice.
type Student struct {
	Name    string `csv:"name"`
	LoginID string `csv:"sis_login_id"`
}

// Compare orders students by login id.
func (s Student) Compare(o Student) int {
	return strings.Compare(s.LoginID, o.LoginID)
}

func (s Student) String() string {
	return s.Name + " - " + s.LoginID
}
