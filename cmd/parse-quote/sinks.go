package main

import (
	"context"
	"io"

	"github.com/yanun0323/logs"

	"parsequote/internal/ops"
	"parsequote/internal/sink"
	"parsequote/pkg/conn"
)

// outputs owns the configured sinks and the connections behind them.
type outputs struct {
	sink    sink.Multi
	closers []func() error
}

func (o *outputs) release() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](); err != nil {
			logs.Errorf("release sink connection, err: %+v", err)
		}
	}
	o.closers = nil
}

func buildSinks(ctx context.Context, cfg *ops.Config, stdout io.Writer) (*outputs, error) {
	out := &outputs{}
	if cfg.Output.Stdout {
		out.sink = append(out.sink, sink.NewLine(stdout))
	}

	if pc := cfg.Sinks.Postgres; pc.Enabled {
		client, err := conn.NewPostgres(postgresOption(pc))
		if err != nil {
			out.release()
			return nil, err
		}
		out.closers = append(out.closers, client.Close)
		s, err := sink.NewPostgres(ctx, client.DB(), pc.BatchSize)
		if err != nil {
			out.release()
			return nil, err
		}
		out.sink = append(out.sink, s)
	}

	if rc := cfg.Sinks.Redis; rc.Enabled {
		client, err := conn.NewRedis(ctx, conn.RedisOption{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
		if err != nil {
			out.release()
			return nil, err
		}
		out.closers = append(out.closers, client.Close)
		s, err := sink.NewRedis(client, rc.BatchSize)
		if err != nil {
			out.release()
			return nil, err
		}
		out.sink = append(out.sink, s)
	}

	if kc := cfg.Sinks.Kafka; kc.Enabled {
		writer, err := conn.NewKafkaWriter(conn.KafkaOption{Brokers: kc.Brokers, Topic: kc.Topic, BatchSize: kc.BatchSize})
		if err != nil {
			out.release()
			return nil, err
		}
		out.closers = append(out.closers, writer.Close)
		s, err := sink.NewKafka(writer, kc.BatchSize)
		if err != nil {
			out.release()
			return nil, err
		}
		out.sink = append(out.sink, s)
	}

	return out, nil
}

func postgresOption(pc ops.PostgresConfig) conn.PostgresOption {
	return conn.PostgresOption{
		DSN:          pc.DSN,
		Host:         pc.Host,
		Port:         pc.Port,
		User:         pc.User,
		Password:     pc.Password,
		Database:     pc.Database,
		SSLMode:      pc.SSLMode,
		Params:       pc.Params,
		LogLevel:     pc.LogLevel,
		MaxOpenConns: pc.MaxOpenConns,
	}
}
