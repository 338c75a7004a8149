// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package producers

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/deltad/background"
)

// Updater - accepts a replacement peer list
type Updater interface {
	Update(peers [][]byte) error
}

type watcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	target   Updater
}

// NewWatcher - background process reloading the producers file into
// target whenever it changes
//
// the directory is watched so that files replaced by rename are seen
func NewWatcher(log *logger.L, fileName string, target Updater) (background.Process, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := w.Add(filepath.Dir(filePath)); nil != err {
		w.Close()
		return nil, err
	}

	return &watcher{
		log:      log,
		watcher:  w,
		filePath: filePath,
		target:   target,
	}, nil
}

// Run - background processing interface
func (w *watcher) Run(_ interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching: %s", w.filePath)

loop:
	for {
		select {
		case event := <-w.watcher.Events:
			if filepath.Base(event.Name) != filepath.Base(w.filePath) {
				continue
			}
			if !isChange(event) {
				continue
			}
			log.Infof("file event: %v", event)
			w.reload()

		case err := <-w.watcher.Errors:
			log.Errorf("watcher error: %s", err)

		case <-shutdown:
			break loop
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

// a bad or missing file keeps the previous list
func (w *watcher) reload() {
	peers, err := ReadFile(w.filePath)
	if nil != err {
		w.log.Errorf("reload: %s  error: %s", w.filePath, err)
		return
	}
	if err := w.target.Update(peers); nil != err {
		w.log.Errorf("update error: %s", err)
	}
}

func isChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
