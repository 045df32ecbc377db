package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/juruen/inkpaper/config"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/paper"
	"github.com/juruen/inkpaper/shell"
)

func main() {
	configPath := flag.String("config", "", "config file (default $INKPAPER_CONFIG or the user config dir)")
	protocol := flag.String("protocol", "", "REST or WebSocket, overrides the config")
	jsonOutput := flag.Bool("json", false, "print results as json")
	serverMode := flag.Bool("server", false, "run the http api instead of the shell")
	port := flag.Int("port", 0, "http port (default 8080)")
	initConfig := flag.Bool("init", false, "write the current settings to the config file and exit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: inkpaper [options] [command]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.InitLog()

	if err := run(*configPath, *protocol, *jsonOutput, *serverMode, *initConfig, *port, flag.Args()); err != nil {
		log.Error.Println("Error: ", err)
		os.Exit(1)
	}
}

func run(configPath, protocol string, jsonOutput, serverMode, initConfig bool, port int, args []string) error {
	if configPath == "" {
		var err error
		if configPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if protocol != "" {
		cfg.Protocol = protocol
	}
	if initConfig {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		log.Info.Printf("config written to %s", configPath)
		return nil
	}

	opts, err := cfg.PaperOptions()
	if err != nil {
		return err
	}
	p, err := paper.New(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	if serverMode {
		return runServerMode(p, cfg.Addr(port))
	}
	return shell.RunShell(p, args, jsonOutput)
}
