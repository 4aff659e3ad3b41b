// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"path/filepath"

	"cogentcore.org/solid/base/fsx"
	"github.com/fsnotify/fsnotify"
)

// configWatcher reports changes to a config file. It watches the
// directory, because editors often save by replacing the file.
type configWatcher struct {
	// Changed receives a value after the file is written or replaced.
	// Changes arriving before the last one is received are merged.
	Changed chan struct{}

	watcher *fsnotify.Watcher
	file    string
}

// watchConfig starts watching the given config file.
func watchConfig(filename string) (*configWatcher, error) {
	fn, err := fsx.Expand(filename)
	if err != nil {
		return nil, err
	}
	fn, err = filepath.Abs(fn)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(fn)); err != nil {
		watcher.Close()
		return nil, err
	}
	cw := &configWatcher{Changed: make(chan struct{}, 1), watcher: watcher, file: fn}
	go cw.run()
	return cw, nil
}

func (cw *configWatcher) run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case cw.Changed <- struct{}{}:
			default:
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("solid: config watcher error: " + err.Error())
		}
	}
}

// Close stops watching.
func (cw *configWatcher) Close() error {
	return cw.watcher.Close()
}
