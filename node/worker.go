// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

// worker runs tasks one by one on a single background goroutine.
// Once a task fails, the remaining tasks are skipped and Sync reports the error.
type worker struct {
	taskCh chan func() error
	ackCh  chan error
}

func newWorker() *worker {
	w := &worker{
		taskCh: make(chan func() error, 64),
		ackCh:  make(chan error),
	}
	go w.loop()
	return w
}

// Close stops the background goroutine after the queued tasks ran.
func (w *worker) Close() {
	close(w.taskCh)
	<-w.ackCh
}

// Run queues the task.
func (w *worker) Run(task func() error) {
	if task != nil {
		w.taskCh <- task
	}
}

// Sync waits for the queued tasks and returns the first error.
func (w *worker) Sync() error {
	w.taskCh <- nil
	return <-w.ackCh
}

func (w *worker) loop() {
	defer close(w.ackCh)

	var err error
	for task := range w.taskCh {
		if task == nil {
			w.ackCh <- err
			continue
		}
		if err == nil {
			err = task()
		}
	}
}
