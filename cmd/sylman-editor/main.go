package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eoauman/sylman/internal/editor"
	"github.com/eoauman/sylman/internal/form/assemble"
	"github.com/eoauman/sylman/internal/form/groups"
	"github.com/eoauman/sylman/internal/form/richtext"
	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/pkg/logger"
)

// Headless editor session against a running syllabus server. It drives the
// same form tree, bridge, and sync engine the browser frontend uses, which
// makes it handy for smoke-testing a deployment:
//
//	sylman-editor -server http://localhost:5080 -user alice -password secret \
//	    -load draft.json -watch 5m
func main() {
	var (
		serverURL  = flag.String("server", "http://localhost:5080", "syllabus server base URL")
		username   = flag.String("user", "", "account username (login before editing)")
		password   = flag.String("password", "", "account password")
		userID     = flag.String("user-id", "", "user id (skip login)")
		syllabusID = flag.String("syllabus", "", "existing syllabus id to edit; empty starts a draft")
		loadPath   = flag.String("load", "", "JSON document to populate into the form before saving")
		watch      = flag.Duration("watch", 0, "keep autosaving for this long after the first save")
		interval   = flag.Duration("interval", 60*time.Second, "autosave interval")
	)
	flag.Parse()
	logger.Init(os.Getenv("LOG_LEVEL"))

	ctx := context.Background()
	gw := editor.NewGateway(*serverURL)

	session := editor.SessionContext{UserID: *userID, SyllabusID: *syllabusID}
	var sessionToken string
	if *username != "" {
		creds, err := gw.Login(ctx, *username, *password)
		if err != nil {
			logger.Fatalf("login failed: %v", err)
		}
		session.UserID = creds.UserID
		session.IsAdmin = creds.Role == "admin"
		sessionToken = creds.SessionToken
		if creds.AccessToken != "" {
			gw.SetToken(creds.AccessToken)
		}
		logger.Infof("logged in as %s (role %s)", creds.UserID, creds.Role)
	}
	if session.UserID == "" {
		logger.Fatalf("either -user/-password or -user-id is required")
	}

	root := groups.NewSyllabusForm()
	bridge := richtext.NewBridge(root)
	builder := groups.NewBuilder(root, bridge, richtext.NewPlain)
	populator := assemble.NewPopulator(root, bridge, builder)

	eng := editor.NewEngine(root, bridge, populator, gw, session, editor.Options{Interval: *interval})
	eng.SetStatusListener(func(msg string) {
		if msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	})

	if err := eng.Load(ctx); err != nil {
		logger.Fatalf("load failed: %v", err)
	}

	if *loadPath != "" {
		raw, err := os.ReadFile(*loadPath)
		if err != nil {
			logger.Fatalf("read %s: %v", *loadPath, err)
		}
		var doc syllabus.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			logger.Fatalf("parse %s: %v", *loadPath, err)
		}
		populator.Populate(&doc)
	}

	if err := eng.ManualSave(ctx); err != nil {
		logger.Fatalf("save failed: %v", err)
	}
	fmt.Println(eng.Session().SyllabusID)

	if *watch > 0 {
		eng.NotifyChange()
		logger.Infof("autosaving every %s for %s", *interval, *watch)
		time.Sleep(*watch)
		eng.Stop()
	}

	if sessionToken != "" {
		if err := gw.Logout(ctx, sessionToken); err != nil {
			logger.Warnf("logout failed: %v", err)
		}
	}
}
