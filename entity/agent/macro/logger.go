package macro

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "macro")
