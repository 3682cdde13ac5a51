package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pelletier/go-toml/v2"
)

const (
	manifestFile   = "class.toml"
	rosterFile     = "roster.csv"
	submissionsDir = "submissions"
)

var (
	ErrUnknownAssignment = errors.New("assignment does not belong to class")
	ErrNotAClass         = errors.New("directory has no class manifest")
)

type manifest struct {
	Name        string   `toml:"name"`
	Assignments []string `toml:"assignments"`
}

// Class is a group of students sharing a set of assignments. It is read-only
// once loaded.
type Class struct {
	Name        string
	Dir         string
	Students    []Student
	Assignments []string
}

// Load reads the class stored in dir.
func Load(dir string) (*Class, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotAClass, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read class manifest: %w", err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Join(dir, manifestFile), err)
	}
	if m.Name == "" {
		m.Name = filepath.Base(dir)
	}

	students, err := readRoster(filepath.Join(dir, rosterFile))
	if err != nil {
		return nil, err
	}

	return &Class{
		Name:        m.Name,
		Dir:         dir,
		Students:    students,
		Assignments: m.Assignments,
	}, nil
}

// LoadAll loads every class directory directly under storageDir, sorted by
// class name. Directories without a manifest are skipped.
func LoadAll(storageDir string) ([]*Class, error) {
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage dir: %w", err)
	}
	var classes []*Class
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		c, err := Load(filepath.Join(storageDir, e.Name()))
		if errors.Is(err, ErrNotAClass) {
			continue
		}
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	slices.SortFunc(classes, func(a, b *Class) int {
		return strings.Compare(a.Name, b.Name)
	})
	return classes, nil
}

// Find returns the class with the given name.
func Find(classes []*Class, name string) (*Class, bool) {
	for _, c := range classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func readRoster(path string) ([]Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	var students []Student
	if err := gocsv.UnmarshalBytes(data, &students); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(students))
	for i, s := range students {
		s.LoginID = strings.TrimSpace(s.LoginID)
		s.Name = strings.TrimSpace(s.Name)
		if s.LoginID == "" {
			return nil, fmt.Errorf("roster %s: row %d has no sis_login_id", path, i+1)
		}
		if _, dup := seen[s.LoginID]; dup {
			return nil, fmt.Errorf("roster %s: duplicate sis_login_id %q", path, s.LoginID)
		}
		seen[s.LoginID] = struct{}{}
		students[i] = s
	}
	slices.SortFunc(students, Student.Compare)
	return students, nil
}

// HasAssignment reports whether the manifest lists the assignment.
func (c *Class) HasAssignment(name string) bool {
	return slices.Contains(c.Assignments, name)
}

// Student looks a student up by login id.
func (c *Class) Student(loginID string) (Student, bool) {
	for _, s := range c.Students {
		if s.LoginID == loginID {
			return s, true
		}
	}
	return Student{}, false
}

// StudentAssignments lists, for every student of the class, the files they
// submitted for the assignment in name order. Students without a submission
// directory map to an empty list.
func (c *Class) StudentAssignments(assignment string) (map[Student][]string, error) {
	if !c.HasAssignment(assignment) {
		return nil, fmt.Errorf("%w: %q in %q", ErrUnknownAssignment, assignment, c.Name)
	}

	res := make(map[Student][]string, len(c.Students))
	for _, s := range c.Students {
		dir := filepath.Join(c.Dir, submissionsDir, assignment, s.LoginID)
		files, err := listFiles(dir)
		if err != nil {
			return nil, err
		}
		res[s] = files
	}
	return res, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	files := make([]string, 0, len(entries))
	// os.ReadDir returns entries sorted by file name
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
