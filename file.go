// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papertex

import (
	"os"
	"path/filepath"

	"github.com/k1LoW/errors"
)

// WriteFile writes data to the named file, creating parent directories
// as needed.  The data is written to a temporary file in the same
// directory which then replaces name, so name holds either its old
// contents or all of data.
func WriteFile(name string, data []byte) (err error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(f.Name()); rmErr != nil {
				err = errors.Join(err, rmErr)
			}
		}
	}()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := os.Rename(f.Name(), name); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
