package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	item := fs.String("item", "", "item filter (drops)")
	_ = fs.Parse(args)

	q := "steps"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if *limit <= 0 {
		*limit = 20
	}

	switch q {
	case "steps":
		rows, err := db.Query(`SELECT height,digest,kills,drops FROM steps ORDER BY height DESC LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Height int64  `json:"height"`
				Digest string `json:"digest"`
				Kills  int    `json:"kills"`
				Drops  int    `json:"drops"`
			}
			if err := rows.Scan(&r.Height, &r.Digest, &r.Kills, &r.Drops); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "kills":
		rows, err := db.Query(`SELECT height,seq,kind,entity_id FROM kills ORDER BY height DESC, seq LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Height   int64  `json:"height"`
				Seq      int    `json:"seq"`
				Kind     string `json:"kind"`
				EntityID int64  `json:"entity_id"`
			}
			if err := rows.Scan(&r.Height, &r.Seq, &r.Kind, &r.EntityID); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "drops":
		query := `SELECT height,seq,x,y,item,count FROM drops ORDER BY height DESC, seq LIMIT ?`
		qargs := []any{*limit}
		if strings.TrimSpace(*item) != "" {
			query = `SELECT height,seq,x,y,item,count FROM drops WHERE item=? ORDER BY height DESC, seq LIMIT ?`
			qargs = []any{strings.TrimSpace(*item), *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Height int64  `json:"height"`
				Seq    int    `json:"seq"`
				X      int    `json:"x"`
				Y      int    `json:"y"`
				Item   string `json:"item"`
				Count  int64  `json:"count"`
			}
			if err := rows.Scan(&r.Height, &r.Seq, &r.X, &r.Y, &r.Item, &r.Count); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data] [-world WORLD|-db PATH] [-limit N] steps|kills|drops|catalogs")
		os.Exit(2)
	}
}
