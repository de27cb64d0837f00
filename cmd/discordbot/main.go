/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal/config"
	"github.com/mikeb26/swisschamp/store"
	"github.com/mikeb26/swisschamp/uschess"

	_ "embed"
)

// ChampCmdId is the registered id of /champ; empty registers it afresh.
const ChampCmdId = ""

type TopLevelCommand string

const (
	ChampCmd TopLevelCommand = "champ"
)

type CmdHandler func(b *champBot, ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	ChampCmd: (*champBot).champCmdHandler,
}

// champBot serves the interactions endpoint. Each Discord user gets their own
// championship snapshot.
type champBot struct {
	cfg    *config.Config
	store  store.Store
	rnd    championship.RandSource
	pubKey ed25519.PublicKey

	newUSChess func(ctx context.Context) *uschess.Client
}

func newChampBot(cfg *config.Config, st store.Store) (*champBot, error) {
	pubKeyBytes, err := hex.DecodeString(strings.TrimSpace(cfg.Discord.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key is %v bytes; want %v",
			len(pubKeyBytes), ed25519.PublicKeySize)
	}

	return &champBot{
		cfg:    cfg,
		store:  st,
		pubKey: ed25519.PublicKey(pubKeyBytes),
		newUSChess: func(ctx context.Context) *uschess.Client {
			return uschess.NewClient(ctx, cfg.USChess.CacheBucket,
				cfg.USChess.CacheTTL)
		},
	}, nil
}

func (b *champBot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(b, r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interation type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

//go:embed lastupdate.hash
var lastCmdUpdateHash string

func cmdRegistrationHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	hexString, err := cmdRegistrationHash(cmd)
	if err != nil {
		log.Printf("discordbot.reg: failed to marshal cmd: %v", err)
		return false
	}

	shouldUpdate := (hexString != strings.TrimSpace(lastCmdUpdateHash))
	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please update lastupdate.hash to %v",
			hexString)
	}

	return shouldUpdate
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func champCommand() *discordgo.ApplicationCommand {
	minRating := 100.0
	minPlayers := 2.0
	minRound := 1.0

	return &discordgo.ApplicationCommand{
		Name:        string(ChampCmd),
		Description: "Swiss chess championship against a field of bots; try /champ help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampHelpCmd),
				Description: "Show usage for champ",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampAboutCmd),
				Description: "Show information about swisschamp",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampStartCmd),
				Description: "Start a new championship",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Your display name (default is your Discord name)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "rating",
						Description: "Your rating (default is 1000)",
						MinValue:    &minRating,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "uscf",
						Description: "USCF member id to take your name and rating from",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "rounds",
						Description: "Number of rounds (default is 7)",
						MinValue:    &minRound,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "players",
						Description: "Field size including you; must be even (default is 40)",
						MinValue:    &minPlayers,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "force",
						Description: "Replace a championship still in progress",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampPairingsCmd),
				Description: "Show pairings for a round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "round",
						Description: "Round to show (default is the current round)",
						MinValue:    &minRound,
					},
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampStandingsCmd),
				Description: "Show the current standings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "top",
						Description: "Only show the top N rows plus yourself",
					},
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampOpponentCmd),
				Description: "Show your opponent for the current round",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampPlayCmd),
				Description: "Record your result and play out the rest of the round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "result",
						Description: "Your result against this round's opponent",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "win", Value: string(championship.HumanWin)},
							{Name: "loss", Value: string(championship.HumanLoss)},
							{Name: "draw", Value: string(championship.HumanDraw)},
						},
					},
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ChampResetCmd),
				Description: "Delete your championship",
			},
		},
	}
}

func registerSlashCommands(session *discordgo.Session, appID string) {
	champCmd := champCommand()

	if ChampCmdId == "" {
		cmd, err := session.ApplicationCommandCreate(appID, "", champCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", champCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
	} else if shouldUpdateCmdRegistration(champCmd) {
		cmd, err := session.ApplicationCommandEdit(appID, "", ChampCmdId,
			champCmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", champCmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CHAMPTD_CONFIG"))
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	if cfg.Discord.Token == "" || cfg.Discord.PublicKey == "" ||
		cfg.Discord.AppID == "" {
		log.Fatalf("discordbot.main: DISCORD_BOT_TOKEN, DISCORD_PUBLIC_KEY and DISCORD_APP_ID must be set")
	}
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("discordbot.main: failed to open %v store: %v",
			cfg.Store.Kind, err)
	}
	bot, err := newChampBot(cfg, st)
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to initialize discord client: %v", err)
	}
	go registerSlashCommands(session, cfg.Discord.AppID)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DiscordBot/Interaction", bot.interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
