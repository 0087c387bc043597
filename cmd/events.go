/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/leadbase/apiserver/internal/mq"
	"github.com/leadbase/apiserver/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect lead events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log lead events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("MQ_BACKEND is none; no events to tail")
		}
		defer queue.Close()

		log.WithFields(logrus.Fields{
			"backend": queue.Name(),
			"channel": cfg.MQ.Channel,
		}).Info("tailing lead events")
		err = queue.Subscribe(ctx, cfg.MQ.Channel, func(_ context.Context, msg mq.Message) error {
			var event services.LeadEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				log.WithError(err).WithField("message_id", msg.ID).Warn("undecodable lead event")
				return nil
			}
			log.WithFields(logrus.Fields{
				"message_id": msg.ID,
				"type":       event.Type,
				"lead_id":    event.LeadID,
				"changes":    event.Changes,
				"at":         event.At,
			}).Info("lead event")
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
