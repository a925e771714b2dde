package commands

import "time"

// now stamps domain times from one place so tests can pin the clock.
var now = time.Now
