package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/qr"
	"github.com/alapierre/go-sri-client/sri/sender"
	"github.com/alapierre/go-sri-client/sri/util"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("cannot read .env file")
	}
	util.ConfigureLogger()

	cfg, err := sri.LoadConfig()
	if err != nil {
		panic(err)
	}

	accessKey := util.GetEnvOrFailed("SRI_ACCESS_KEY")
	xmlFile := util.GetEnvOrFailed("SRI_XML_FILE")

	key, err := sri.ParseAccessKey(accessKey)
	if err != nil {
		panic(err)
	}
	if key.Environment != cfg.Environment {
		logrus.Warnf("access key was issued for %s but sending to %s", key.Environment, cfg.Environment)
	}

	signed, err := os.ReadFile(xmlFile)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := sender.NewForEnvironment(cfg, nil)
	res := s.Send(ctx, accessKey, string(signed))

	out, err := res.MarshalJSON()
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))

	if !res.Success {
		for _, line := range s.ReceptionMessageLines() {
			logrus.Info("reception: " + line)
		}
		for _, line := range s.AuthorizationMessageLines() {
			logrus.Info("authorization: " + line)
		}
		os.Exit(1)
	}

	if qrFile := util.GetEnvOrDefault("SRI_QR_FILE", ""); qrFile != "" {
		data, err := qr.AuthorizationPNG(res.Authorization.AuthorizedDocument)
		if err != nil {
			panic(err)
		}
		if err := os.WriteFile(qrFile, data, 0644); err != nil {
			panic(err)
		}
		logrus.Infof("authorization qr code written to %s", qrFile)
	}
}
