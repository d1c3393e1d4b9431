package validate

// Args holds validated, normalized operation arguments.
type Args map[string]any

// Has reports whether name was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the string value for name, or "".
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns the integer value for name, or 0.
func (a Args) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// Bool returns the boolean value for name, or false.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Strings returns the string list for name.
func (a Args) Strings(name string) []string {
	s, _ := a[name].([]string)
	return s
}

// Bools returns the boolean list for name.
func (a Args) Bools(name string) []bool {
	b, _ := a[name].([]bool)
	return b
}

// Object returns the object value for name.
func (a Args) Object(name string) map[string]any {
	m, _ := a[name].(map[string]any)
	return m
}
