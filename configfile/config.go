// Package configfile reads CLASS-style ".ini" parameter files
// ("[section]" header, "name = value" lines, "#" comments) into a typed
// Go struct. Adapted from the teacher's parse.ConfigVars/ReadConfig
// (parse/config.go in the reference pack) — the teacher's own
// hand-rolled reader, kept because no pack example offers a more
// idiomatic alternative for this file shape (see SPEC_FULL.md, Ambient
// Configuration).
package configfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type varType int

const (
	intVar varType = iota
	intsVar
	floatVar
	floatsVar
	stringVar
	stringsVar
	boolVar
	boolsVar
)

func (v varType) String() string {
	switch v {
	case intVar:
		return "int"
	case intsVar:
		return "int list"
	case floatVar:
		return "float"
	case floatsVar:
		return "float list"
	case stringVar:
		return "string"
	case stringsVar:
		return "string list"
	case boolVar:
		return "bool"
	case boolsVar:
		return "bool list"
	}
	panic("configfile: impossible varType")
}

type conversionFunc func(string) bool

// Vars declares the set of named, typed fields a config file of a given
// section name is allowed to assign.
type Vars struct {
	name            string
	varNames        []string
	varTypes        []varType
	conversionFuncs []conversionFunc
}

// NewVars creates a Vars requiring the config file's header to read
// "[name]".
func NewVars(name string) *Vars { return &Vars{name: name} }

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.Atoi(s)
		if err != nil {
			return false
		}
		*ptr = int64(i)
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.Trim(s, " ")
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		*ptr = b
		return true
	}
}

func strToList(a string) []string {
	strs := strings.Split(a, ",")
	for i := range strs {
		strs[i] = strings.Trim(strs[i], " ")
	}
	return strs
}

func floatsConv(ptr *[]float64) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		vals := make([]float64, 0, len(toks))
		for _, tok := range toks {
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return false
			}
			vals = append(vals, f)
		}
		*ptr = vals
		return true
	}
}

func stringsConv(ptr *[]string) conversionFunc {
	return func(s string) bool {
		*ptr = strToList(s)
		return true
	}
}

// Int registers an int64-valued field with the given default.
func (v *Vars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, intConv(ptr))
	v.varTypes = append(v.varTypes, intVar)
}

// Float registers a float64-valued field with the given default.
func (v *Vars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, floatConv(ptr))
	v.varTypes = append(v.varTypes, floatVar)
}

// String registers a string-valued field with the given default.
func (v *Vars) String(ptr *string, name string, value string) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, stringConv(ptr))
	v.varTypes = append(v.varTypes, stringVar)
}

// Bool registers a bool-valued field with the given default.
func (v *Vars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, boolConv(ptr))
	v.varTypes = append(v.varTypes, boolVar)
}

// Floats registers a []float64-valued field with the given default.
func (v *Vars) Floats(ptr *[]float64, name string, value []float64) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, floatsConv(ptr))
	v.varTypes = append(v.varTypes, floatsVar)
}

// Strings registers a []string-valued field with the given default.
func (v *Vars) Strings(ptr *[]string, name string, value []string) {
	*ptr = value
	v.varNames = append(v.varNames, name)
	v.conversionFuncs = append(v.conversionFuncs, stringsConv(ptr))
	v.varTypes = append(v.varTypes, stringsVar)
}

// Load reads fname and assigns matching "name = value" lines onto the
// fields registered in vars.
func Load(fname string, vars *Vars) error {
	for i := range vars.varNames {
		vars.varNames[i] = strings.ToLower(vars.varNames[i])
	}

	bs, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	lines := strings.Split(string(bs), "\n")
	lines, lineNums := removeComments(lines)
	for i := range lineNums {
		lineNums[i]++
	}

	if len(lines) == 0 || lines[0] != fmt.Sprintf("[%s]", vars.name) {
		return fmt.Errorf(
			"configfile: expected %s to start with the header [%s]",
			fname, vars.name,
		)
	}
	lines = lines[1:]

	names, vals, errLine := associationList(lines)
	if errLine != -1 {
		return fmt.Errorf(
			"configfile: line %d of %s is not a variable assignment",
			lineNums[errLine+1], fname,
		)
	}

	if errLine = checkValidNames(names, vars); errLine != -1 {
		return fmt.Errorf(
			"configfile: line %d of %s assigns unknown variable %q for section %q",
			lineNums[errLine+1], fname, names[errLine], vars.name,
		)
	}

	if i, j := checkDuplicateNames(names); i != -1 {
		return fmt.Errorf(
			"configfile: lines %d and %d of %s both assign %q",
			lineNums[i+1], lineNums[j+1], fname, names[i],
		)
	}

	if errLine = convertAssoc(names, vals, vars); errLine != -1 {
		j := indexOf(vars.varNames, names[errLine])
		return fmt.Errorf(
			"configfile: line %d of %s: %q expects a %s, got %q",
			lineNums[errLine+1], fname, vars.varNames[j], vars.varTypes[j], vals[errLine],
		)
	}

	return nil
}

func indexOf(names []string, name string) int {
	for j, n := range names {
		if n == name {
			return j
		}
	}
	return -1
}

func removeComments(lines []string) ([]string, []int) {
	tmp := make([]string, len(lines))
	copy(tmp, lines)
	lines = tmp

	for i := range lines {
		if comment := strings.Index(lines[i], "#"); comment != -1 {
			lines[i] = lines[i][:comment]
		}
	}

	out, lineNums := []string{}, []int{}
	for i := range lines {
		line := strings.Trim(lines[i], " ")
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
		lineNums = append(lineNums, i)
	}
	return out, lineNums
}

func associationList(lines []string) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		eq := strings.Index(lines[i], "=")
		if eq == -1 {
			return nil, nil, i
		}
		name := lines[i][:eq]
		val := ""
		if len(lines[i])-1 > eq {
			val = lines[i][eq+1:]
		}
		name = strings.ToLower(strings.Trim(name, " "))
		if len(name) == 0 {
			return nil, nil, i
		}
		names = append(names, name)
		vals = append(vals, strings.Trim(val, " "))
	}
	return names, vals, -1
}

func checkValidNames(names []string, vars *Vars) int {
	for i := range names {
		if indexOf(vars.varNames, names[i]) == -1 {
			return i
		}
	}
	return -1
}

func checkDuplicateNames(names []string) (int, int) {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				return i, j
			}
		}
	}
	return -1, -1
}

func convertAssoc(names, vals []string, vars *Vars) int {
	for i := range names {
		j := indexOf(vars.varNames, names[i])
		if !vars.conversionFuncs[j](vals[i]) {
			return i
		}
	}
	return -1
}
