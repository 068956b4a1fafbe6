package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"payroll-engine/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := cli.NewRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(cli.GetExitCode(err))
	}
}
