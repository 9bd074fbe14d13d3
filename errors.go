package telnet

import "errors"

// ErrAlreadyRegistered is returned by Session.Install when an option is already
// registered under the code it reports from Code().
var ErrAlreadyRegistered = errors.New("telnet: option already registered for this code")

// ErrOptionInactive is returned by options (MSDP in particular) when an
// outbound operation is attempted while the option has not been activated.
var ErrOptionInactive = errors.New("telnet: option is not active")
