package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	cli "github.com/jawher/mow.cli"
	_ "github.com/joho/godotenv/autoload"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"github.com/webern-unibas-ch/migration-scripts/salsah"
)

func main() {
	app := cli.App("salsah-model-transformer", "Transforms SALSAH project models into DSP ontology JSON")

	salsahBaseURL := app.String(cli.StringOpt{
		Name:   "salsah-base-url",
		Value:  "https://www.salsah.org",
		Desc:   "SALSAH base url",
		EnvVar: "SALSAH_BASE_URL",
	})
	shortcodesURL := app.String(cli.StringOpt{
		Name:   "shortcodes-url",
		Value:  salsah.DefaultShortcodesURL,
		Desc:   "CSV file mapping project shortnames to DSP shortcodes",
		EnvVar: "SHORTCODES_URL",
	})
	projectIDs := app.Strings(cli.StringsOpt{
		Name:   "project-ids",
		Value:  []string{"6"},
		Desc:   "SALSAH ids of the projects to transform",
		EnvVar: "PROJECT_IDS",
	})
	outputDir := app.String(cli.StringOpt{
		Name:   "output-dir",
		Value:  ".",
		Desc:   "Directory the ontology files are written to",
		EnvVar: "OUTPUT_DIR",
	})
	dedup := app.String(cli.StringOpt{
		Name:   "dedup",
		Value:  "first-wins",
		Desc:   "Duplicate property policy: first-wins or by-vocabulary",
		EnvVar: "DEDUP_POLICY",
	})
	cacheSize := app.Int(cli.IntOpt{
		Name:   "resource-type-cache-size",
		Value:  512,
		Desc:   "Number of resource types kept in memory",
		EnvVar: "RESOURCE_TYPE_CACHE_SIZE",
	})
	logMetrics := app.Bool(cli.BoolOpt{
		Name:   "logMetrics",
		Value:  false,
		Desc:   "Whether to log metrics every minute",
		EnvVar: "LOG_METRICS",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	app.Before = func() {
		log.SetOutput(os.Stdout)
		lvl, err := log.ParseLevel(*logLevel)
		if err != nil {
			log.Warnf("Unknown log level %q, using INFO", *logLevel)
			lvl = log.InfoLevel
		}
		log.SetLevel(lvl)

		if *logMetrics {
			go metrics.Log(metrics.DefaultRegistry, time.Minute, log.StandardLogger())
		}
	}

	newTransformer := func(client *pester.Client) (*salsah.Transformer, *salsah.CachingRepository) {
		policy, ok := salsah.DedupPolicies[*dedup]
		if !ok {
			log.Fatalf("Unknown dedup policy %q", *dedup)
		}
		shortcodes, err := salsah.FetchShortcodes(client, *shortcodesURL)
		if err != nil {
			log.Fatalf("Unable to load shortcodes: %v", err)
		}
		repo, err := salsah.NewCachingRepository(salsah.NewSalsahRepository(client, *salsahBaseURL), *cacheSize)
		if err != nil {
			log.Fatalf("Unable to create resource type cache: %v", err)
		}
		return salsah.NewTransformer(repo, shortcodes, salsah.WithDedupPolicy(policy)), repo
	}

	app.Action = func() {
		log.WithFields(log.Fields{
			"salsahBaseURL": *salsahBaseURL,
			"projectIDs":    *projectIDs,
			"outputDir":     *outputDir,
		}).Info("Exporting ontologies")

		transformer, _ := newTransformer(getResilientClient())
		now := time.Now()
		err := transformer.TransformProjects(toIDs(*projectIDs), func(doc *salsah.Document) error {
			_, err := salsah.Export(*outputDir, doc, now)
			return err
		})
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	}

	app.Command("visualize", "Wrap the latest ontology file of a project in PlantUML json markers", func(cmd *cli.Cmd) {
		cmd.Spec = "[NAME]"
		name := cmd.String(cli.StringArg{
			Name:  "NAME",
			Value: "webern",
			Desc:  "Project name the ontology file starts with",
		})

		cmd.Action = func() {
			if _, err := salsah.Visualize(*outputDir, *name, time.Now()); err != nil {
				log.Fatalf("Visualize failed: %v", err)
			}
		}
	})

	app.Command("serve", "Serve the transformed ontologies over HTTP", func(cmd *cli.Cmd) {
		port := cmd.Int(cli.IntOpt{
			Name:   "port",
			Value:  8080,
			Desc:   "Port to listen on",
			EnvVar: "PORT",
		})
		cacheFileName := cmd.String(cli.StringOpt{
			Name:   "cache-file-name",
			Value:  "cache.db",
			Desc:   "Cache file name",
			EnvVar: "CACHE_FILE_NAME",
		})

		cmd.Action = func() {
			transformer, repo := newTransformer(getResilientClient())
			service := salsah.NewService(transformer, repo, toIDs(*projectIDs), *cacheFileName)

			th := salsah.NewHandler(service)
			var router http.Handler = salsah.Router(th)
			router = handlers.LoggingHandler(log.StandardLogger().Writer(), router)

			log.Infof("Listening on port %d", *port)
			if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), router); err != nil {
				log.Fatalf("Unable to start server: %v", err)
			}
		}
	})

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func getResilientClient() *pester.Client {
	tr := &http.Transport{
		MaxIdleConnsPerHost: 32,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	c := &http.Client{
		Transport: tr,
		Timeout:   30 * time.Second,
	}
	client := pester.NewExtendedClient(c)
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = 5
	client.Concurrency = 1

	return client
}

func toIDs(values []string) []salsah.ID {
	ids := make([]salsah.ID, len(values))
	for i, v := range values {
		ids[i] = salsah.ID(v)
	}
	return ids
}
