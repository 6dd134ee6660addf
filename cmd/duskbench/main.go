// Command duskbench drives a buffer pool and a persistent trie
// against a real on-disk file so the storage core can be exercised
// end to end from the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/duskdb/duskdb/internal/bufferpool"
	"github.com/duskdb/duskdb/internal/config"
	"github.com/duskdb/duskdb/internal/storage"
	"github.com/duskdb/duskdb/internal/trie"
)

func main() {
	dataDir := flag.String("data-dir", "", "working directory for the segment file (overrides config)")
	configPath := flag.String("config", "", "path to a duskdb.yaml config file")
	poolSize := flag.Int("pool-size", 0, "buffer pool frame count (overrides config)")
	interactive := flag.Bool("interactive", false, "start a readline REPL instead of the scripted demo")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("duskbench: load config: %v", err)
		}
		cfg = loaded
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *poolSize > 0 {
		cfg.PoolSize = *poolSize
	}

	if err := os.MkdirAll(cfg.DataDir, storage.FileMode0755); err != nil {
		log.Fatalf("duskbench: create data directory: %v", err)
	}

	segmentPath := filepath.Join(cfg.DataDir, cfg.SegmentBase+".seg")
	disk, err := storage.NewFileManager(segmentPath)
	if err != nil {
		log.Fatalf("duskbench: open segment file: %v", err)
	}
	defer func() { _ = disk.Close() }()

	pool := bufferpool.New(cfg.PoolSize, disk, cfg.ReplacerK)
	kv := trie.New()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("shutting down...")
		if err := pool.FlushAllPages(); err != nil {
			log.Printf("duskbench: flush on shutdown: %v", err)
		}
		os.Exit(0)
	}()

	fmt.Printf("duskbench started, data dir %s, pool size %d, replacer k=%d\n", cfg.DataDir, cfg.PoolSize, cfg.ReplacerK)

	if *interactive {
		runREPL(pool, &kv)
		return
	}

	runDemo(pool, kv)
}

// runDemo exercises NewPage/write/unpin/flush and a handful of trie
// puts so a reader can see the whole stack wired together without
// typing anything.
func runDemo(pool *bufferpool.Pool, kv *trie.Trie) {
	pageID, guard, err := pool.NewPageGuarded()
	if err != nil {
		log.Fatalf("duskbench: new page: %v", err)
	}
	copy(guard.Data(), []byte("hello duskdb"))
	guard.MarkDirty()
	guard.Drop()

	if ok, err := pool.FlushPage(pageID); err != nil {
		log.Fatalf("duskbench: flush page: %v", err)
	} else if !ok {
		log.Fatalf("duskbench: flush page: page %d not mapped", pageID)
	}
	fmt.Printf("wrote and flushed page %d\n", pageID)

	kv = kv.Put("greeting", "hello duskdb")
	kv = kv.Put("greeting-loud", "HELLO DUSKDB")
	if v, ok := trie.Get[string](kv, "greeting"); ok {
		fmt.Printf("trie[greeting] = %q\n", v)
	}
	kv = kv.Remove("greeting")
	if _, ok := trie.Get[string](kv, "greeting"); !ok {
		fmt.Println("trie[greeting] removed")
	}
	if v, ok := trie.Get[string](kv, "greeting-loud"); ok {
		fmt.Printf("trie[greeting-loud] survives the removal above: %q\n", v)
	}
}

// runREPL is a minimal readline console over the same pool and trie,
// grounded on cmd/client's readline loop in the teacher repo. put, get
// and del operate the trie; newpage, flushall and poolsize operate the
// pool; \help and \q are meta commands.
func runREPL(pool *bufferpool.Pool, kv **trie.Trie) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "duskbench> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("duskbench: readline: %v", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Println("type \\help for commands")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "\\q", "quit", "exit":
			return
		case "\\help":
			printHelp()
		case "put":
			if len(fields) != 3 {
				fmt.Println("usage: put <key> <value>")
				continue
			}
			*kv = (*kv).Put(fields[1], fields[2])
		case "get":
			if len(fields) != 2 {
				fmt.Println("usage: get <key>")
				continue
			}
			if v, ok := trie.Get[string](*kv, fields[1]); ok {
				fmt.Println(v)
			} else {
				fmt.Println("(absent)")
			}
		case "del":
			if len(fields) != 2 {
				fmt.Println("usage: del <key>")
				continue
			}
			*kv = (*kv).Remove(fields[1])
		case "newpage":
			pageID, guard, err := pool.NewPageGuarded()
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			guard.Drop()
			fmt.Println(int64(pageID))
		case "flushall":
			if err := pool.FlushAllPages(); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println("ok")
		case "poolsize":
			fmt.Println(strconv.Itoa(pool.Size()))
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  put <key> <value>   store a value in the trie
  get <key>           read a value from the trie
  del <key>           remove a key from the trie
  newpage             allocate a page, print its id
  flushall            flush every resident page to disk
  poolsize            print the pool's frame count
  \q | quit | exit    quit`)
}
