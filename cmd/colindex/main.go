package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/colindex/bootstrap"
	"github.com/fulldump/colindex/configuration"
	"github.com/fulldump/colindex/logging"
)

var banner = `
            _ _           _           
  ___ ___ | (_)_ __   __| | _____  __
 / __/ _ \| | | '_ \ / _' |/ _ \ \/ /
| (_| (_) | | | | | | (_| |  __/>  < 
 \___\___/|_|_|_| |_|\__,_|\___/_/\_\
                          version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	logger, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}

	start, stop, err := bootstrap.Bootstrap(&c, logger)
	if err != nil {
		logger.Error("bootstrap", "err", err)
		os.Exit(1)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Info("signal received", "signal", sig.String())
		stop()
	}()

	err = start()
	if err != nil {
		logger.Error("stopped with error", "err", err)
		os.Exit(1)
	}
}
