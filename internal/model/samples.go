package model

import (
	"fmt"

	"github.com/jmylchreest/poptui/internal/popup"
)

var sampleBodies = []string{
	"Your changes have been saved. Press enter or click outside to close.",
	"A new version is available. It will be installed the next time you restart.",
	"Three files could not be synced because they are open in another program.",
	"The connection was restored after a short interruption.",
	"This popup was queued and is shown once the previous one has gone.",
}

// Sample builds a demo message for the given kind. seq numbers the message
// and picks its body.
func Sample(seq int, kind popup.Kind) (*Message, error) {
	body := sampleBodies[(seq-1+len(sampleBodies))%len(sampleBodies)]
	m, err := NewMessage(fmt.Sprintf("Popup #%d", seq), body, kind)
	if err != nil {
		return nil, err
	}
	m.Footer = fmt.Sprintf("%s · enter to close", kind)
	return m, nil
}
