//go:build sqlite

package record

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
