package shape

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "shape")
