package method

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Sleep blocks for d. It cannot be interrupted.
func (m *Method) Sleep(d time.Duration) {
	log.Infof("Waiting for %s", d)
	time.Sleep(d)
}

func (m *Method) SleepSeconds(seconds int) {
	m.Sleep(time.Duration(seconds) * time.Second)
}

func (m *Method) SleepMilliseconds(milliseconds int) {
	m.Sleep(time.Duration(milliseconds) * time.Millisecond)
}
