// Command imapfetch connects to an IMAP server, opens a mailbox and prints
// the most recent messages.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/imapclient"
)

var (
	addr     string
	username string
	password string
	mailbox  string
	count    uint
	debug    bool
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:993", "server address (implicit TLS)")
	flag.StringVar(&username, "username", "", "Username")
	flag.StringVar(&password, "password", "", "Password")
	flag.StringVar(&mailbox, "mailbox", "INBOX", "Mailbox to open")
	flag.UintVar(&count, "count", 10, "Number of messages to show")
	flag.BoolVar(&debug, "debug", false, "Print all commands and responses")
	flag.Parse()

	options := &imapclient.Options{}
	if debug {
		options.DebugWriter = os.Stderr
	}

	client, err := imapclient.DialTLS(addr, options)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	if err := client.Login(username, password).Wait(); err != nil {
		log.Fatalf("Failed to login: %v", err)
	}
	mbox, err := client.Examine(mailbox).Wait()
	if err != nil {
		log.Fatalf("Failed to open %v: %v", mailbox, err)
	}
	if mbox.NumMessages == 0 {
		log.Printf("Mailbox %v is empty", mailbox)
		return
	}

	from := uint32(1)
	if n := uint32(count); n < mbox.NumMessages {
		from = mbox.NumMessages - n + 1
	}
	msgs, err := client.Fetch(imap.SeqSetRange(from, mbox.NumMessages), &imapclient.FetchOptions{
		UID:      true,
		Flags:    true,
		Envelope: true,
	}).Wait()
	if err != nil {
		log.Fatalf("Failed to fetch: %v", err)
	}

	for _, msg := range msgs {
		var sender, subject string
		if env := msg.Envelope; env != nil {
			subject = env.Subject
			if len(env.From) > 0 {
				sender = env.From[0].Addr()
			}
		}
		seen := " "
		for _, flag := range msg.Flags {
			if flag == imap.FlagSeen {
				seen = "*"
			}
		}
		fmt.Printf("%s %5d  %-30s  %s\n", seen, msg.UID, sender, subject)
	}

	if err := client.Logout().Wait(); err != nil {
		log.Fatalf("Failed to logout: %v", err)
	}
}
