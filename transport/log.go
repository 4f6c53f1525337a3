package transport

import "github.com/sirupsen/logrus"

// log is the package-scope logger every component writes through, the way
// the teacher exposes package-level helpers over its own cmn/nlog. Setup
// (output targets, rotation, level from flags) is an external collaborator
// per spec §1 ("logging setup" is out of scope); this package only emits
// through the default logrus instance at the default level.
var log = logrus.StandardLogger().WithField("pkg", "transport")
