package plagiarism

import (
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/puzpuzpuz/xsync/v3"
)

// Detector groups students by the fingerprint of their accepted submission.
// Add may be called from many goroutines.
type Detector struct {
	groups *xsync.MapOf[Fingerprint, mapset.Set[roster.Student]]
	log    *slog.Logger
}

func NewDetector(log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		groups: xsync.NewMapOf[Fingerprint, mapset.Set[roster.Student]](),
		log:    log,
	}
}

// Add fingerprints the student's file. On failure the student is left out
// of collision detection and the error is returned for reporting.
func (d *Detector) Add(student roster.Student, path string) error {
	fp, err := FingerprintFile(path)
	if err != nil {
		d.log.Warn("excluding submission from collision detection",
			"student", student.Name, "login", student.LoginID, "file", path, "err", err)
		return err
	}
	d.AddFingerprint(student, fp)
	return nil
}

func (d *Detector) AddFingerprint(student roster.Student, fp Fingerprint) {
	set, _ := d.groups.LoadOrCompute(fp, func() mapset.Set[roster.Student] {
		return mapset.NewSet[roster.Student]()
	})
	set.Add(student)
}

// Collisions returns the fingerprints shared by two or more students.
func (d *Detector) Collisions() Collisions {
	res := make(Collisions)
	d.groups.Range(func(fp Fingerprint, students mapset.Set[roster.Student]) bool {
		if students.Cardinality() >= 2 {
			res[fp] = students.Clone()
		}
		return true
	})
	return res
}

// Collisions maps a shared fingerprint to the students who submitted it.
type Collisions map[Fingerprint]mapset.Set[roster.Student]

// Involves reports whether the student shares a fingerprint with anyone.
func (c Collisions) Involves(student roster.Student) bool {
	for _, students := range c {
		if students.Contains(student) {
			return true
		}
	}
	return false
}

// Group is one collision with its students ordered by login id.
type Group struct {
	Fingerprint Fingerprint
	Students    []roster.Student
}

// Groups lists the collisions ordered by their first student's login id.
func (c Collisions) Groups() []Group {
	groups := make([]Group, 0, len(c))
	for fp, students := range c {
		members := students.ToSlice()
		slices.SortFunc(members, roster.Student.Compare)
		groups = append(groups, Group{Fingerprint: fp, Students: members})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return a.Students[0].Compare(b.Students[0])
	})
	return groups
}
