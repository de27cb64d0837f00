/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/store"
	"github.com/mikeb26/swisschamp/uschess"
)

type ChampSubCommand string

const (
	ChampAboutCmd     ChampSubCommand = "about"
	ChampHelpCmd      ChampSubCommand = "help"
	ChampStartCmd     ChampSubCommand = "start"
	ChampPairingsCmd  ChampSubCommand = "pairings"
	ChampStandingsCmd ChampSubCommand = "standings"
	ChampOpponentCmd  ChampSubCommand = "opponent"
	ChampPlayCmd      ChampSubCommand = "play"
	ChampResetCmd     ChampSubCommand = "reset"
)

var champSubCmdHdlrs = map[ChampSubCommand]CmdHandler{
	ChampAboutCmd:     (*champBot).champAboutCmdHandler,
	ChampHelpCmd:      (*champBot).champHelpCmdHandler,
	ChampStartCmd:     (*champBot).champStartCmdHandler,
	ChampPairingsCmd:  (*champBot).champPairingsCmdHandler,
	ChampStandingsCmd: (*champBot).champStandingsCmdHandler,
	ChampOpponentCmd:  (*champBot).champOpponentCmdHandler,
	ChampPlayCmd:      (*champBot).champPlayCmdHandler,
	ChampResetCmd:     (*champBot).champResetCmdHandler,
}

const (
	noChampionshipMsg = "You have no championship in progress; run /champ start to begin."
	standingsPreview  = 10
)

func (b *champBot) champCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := (*champBot).champHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := champSubCmdHdlrs[ChampSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(b, ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions returns the options given to the invoked subcommand by name.
func subOptions(
	inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	ret := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return ret
	}
	for _, opt := range data.Options[0].Options {
		ret[opt.Name] = opt
	}
	return ret
}

func broadcastRequested(
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption) bool {

	opt, ok := opts["broadcast"]
	return ok && opt.BoolValue()
}

func interactionUser(inter *discordgo.Interaction) *discordgo.User {
	if inter.Member != nil && inter.Member.User != nil {
		return inter.Member.User
	}
	return inter.User
}

// snapshotKey names the invoking user's championship in the store.
func snapshotKey(inter *discordgo.Interaction) (string, error) {
	user := interactionUser(inter)
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("interaction has no user")
	}
	return "discord-" + user.ID, nil
}

func displayName(inter *discordgo.Interaction) string {
	user := interactionUser(inter)
	if user == nil {
		return "You"
	}
	if inter.Member != nil && inter.Member.Nick != "" {
		return inter.Member.Nick
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// loadChampionship fetches the caller's snapshot. On failure msg holds the
// text to show the user.
func (b *champBot) loadChampionship(ctx context.Context, cmd string,
	inter *discordgo.Interaction) (key string, s championship.State, msg string) {

	key, err := snapshotKey(inter)
	if err != nil {
		msg = fmt.Sprintf("Error identifying you: %v", err)
		log.Printf("discordbot.%v: %v", cmd, msg)
		return "", s, msg
	}
	s, err = b.store.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return key, s, noChampionshipMsg
	} else if err != nil {
		msg = fmt.Sprintf("Error loading your championship: %v", err)
		log.Printf("discordbot.%v: key:%v %v", cmd, key, msg)
		return key, s, msg
	}

	return key, s, ""
}

//go:embed about.txt
var aboutText string

func (b *champBot) champAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func (b *champBot) champHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func (b *champBot) champStartCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)

	key, err := snapshotKey(inter)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error identifying you: %v", err)
		log.Printf("discordbot.start: %v", resp.Data.Content)
		return resp
	}
	force := false
	if opt, ok := opts["force"]; ok {
		force = opt.BoolValue()
	}
	existing, err := b.store.Load(ctx, key)
	if err == nil && !existing.Completed && !force {
		resp.Data.Content = fmt.Sprintf("You are in round %v of %v of a championship. Use /champ start force:true to replace it.",
			existing.CurrentRound, existing.TotalRounds)
		return resp
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		resp.Data.Content = fmt.Sprintf("Error loading your championship: %v", err)
		log.Printf("discordbot.start: key:%v %v", key, resp.Data.Content)
		return resp
	}

	profile := championship.Profile{
		ID:     key,
		Name:   displayName(inter),
		Rating: 1000,
	}
	if opt, ok := opts["name"]; ok && strings.TrimSpace(opt.StringValue()) != "" {
		profile.Name = strings.TrimSpace(opt.StringValue())
	}
	if opt, ok := opts["rating"]; ok {
		profile.Rating = int(opt.IntValue())
	}
	if opt, ok := opts["uscf"]; ok {
		memID := uschess.MemID(opt.IntValue())
		player, err := b.newUSChess(ctx).FetchPlayer(ctx, memID)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error fetching USCF member %v: %v",
				memID, err)
			log.Printf("discordbot.start: %v", resp.Data.Content)
			return resp
		}
		uscfProfile, err := player.Profile()
		if err != nil {
			resp.Data.Content = fmt.Sprintf("USCF member %v: %v", memID, err)
			return resp
		}
		profile.Name = uscfProfile.Name
		profile.Rating = uscfProfile.Rating
	}

	field := b.cfg.FieldConfig()
	field.Rand = b.rnd
	if opt, ok := opts["rounds"]; ok {
		field.TotalRounds = int(opt.IntValue())
	}
	if opt, ok := opts["players"]; ok {
		field.TotalPlayers = int(opt.IntValue())
	}
	s, err := championship.GenerateField(profile, field)
	if err == nil {
		s, err = championship.EnsureCurrentRoundPairings(s)
	}
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Could not start a championship: %v", err)
		return resp
	}
	if err := b.store.Save(ctx, key, s); err != nil {
		resp.Data.Content = fmt.Sprintf("Error saving your championship: %v", err)
		log.Printf("discordbot.start: key:%v %v", key, resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%v** (%v) enters a %v player, %v round championship.\n",
		profile.Name, profile.Rating, len(s.Participants), s.TotalRounds))
	sb.WriteString(opponentLine(s))
	sb.WriteString("\nRun /champ play when your game is over.\n")
	resp.Data.Content = truncateContent(sb.String())

	return resp
}

// champPairingsCmdHandler handles the /champ pairings command to display a
// round's pairings
func (b *champBot) champPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	key, s, msg := b.loadChampionship(ctx, "pairings", inter)
	if msg != "" {
		resp.Data.Content = msg
		return resp
	}

	round := s.CurrentRound
	if opt, ok := opts["round"]; ok && opt.IntValue() > 0 {
		round = int(opt.IntValue())
	}
	if round == s.CurrentRound && !s.Completed {
		paired, err := championship.EnsureCurrentRoundPairings(s)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error pairing round %v: %v", round,
				err)
			log.Printf("discordbot.pairings: key:%v %v", key, resp.Data.Content)
			return resp
		}
		if len(paired.Pairings) != len(s.Pairings) {
			if err := b.store.Save(ctx, key, paired); err != nil {
				resp.Data.Content = fmt.Sprintf("Error saving your championship: %v",
					err)
				log.Printf("discordbot.pairings: key:%v %v", key,
					resp.Data.Content)
				return resp
			}
		}
		s = paired
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(championship.BuildPairingsOutput(s, round)))

	if broadcastRequested(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

// champStandingsCmdHandler handles the /champ standings command to display
// the leaderboard
func (b *champBot) champStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	_, s, msg := b.loadChampionship(ctx, "standings", inter)
	if msg != "" {
		resp.Data.Content = msg
		return resp
	}

	limit := 0
	if opt, ok := opts["top"]; ok {
		limit = int(opt.IntValue())
	}
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(championship.BuildStandingsOutput(s, limit)))

	if broadcastRequested(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

func (b *champBot) champOpponentCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	key, s, msg := b.loadChampionship(ctx, "opponent", inter)
	if msg != "" {
		resp.Data.Content = msg
		return resp
	}
	if s.Completed {
		resp.Data.Content = finishedLine(s)
		return resp
	}

	paired, err := championship.EnsureCurrentRoundPairings(s)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error pairing round %v: %v",
			s.CurrentRound, err)
		log.Printf("discordbot.opponent: key:%v %v", key, resp.Data.Content)
		return resp
	}
	if len(paired.Pairings) != len(s.Pairings) {
		if err := b.store.Save(ctx, key, paired); err != nil {
			resp.Data.Content = fmt.Sprintf("Error saving your championship: %v",
				err)
			log.Printf("discordbot.opponent: key:%v %v", key, resp.Data.Content)
			return resp
		}
	}
	resp.Data.Content = opponentLine(paired)

	return resp
}

func (b *champBot) champPlayCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)

	opt, ok := opts["result"]
	if !ok {
		resp.Data.Content = "Please provide your result: win, loss or draw."
		return resp
	}
	result, err := championship.ParseHumanResult(opt.StringValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("%q is not a result; use win, loss or draw.",
			opt.StringValue())
		return resp
	}
	key, s, msg := b.loadChampionship(ctx, "play", inter)
	if msg != "" {
		resp.Data.Content = msg
		return resp
	}
	if s.Completed {
		resp.Data.Content = finishedLine(s) + " Run /champ start for a new one."
		return resp
	}
	round := s.CurrentRound

	next, err := championship.PlayHumanRound(s, result, b.rnd)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error playing round %v: %v", round, err)
		log.Printf("discordbot.play: key:%v %v", key, resp.Data.Content)
		return resp
	}
	if err := b.store.Save(ctx, key, next); err != nil {
		resp.Data.Content = fmt.Sprintf("Error saving your championship: %v", err)
		log.Printf("discordbot.play: key:%v %v", key, resp.Data.Content)
		return resp
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v result recorded: %v.\n", round, result))
	sb.WriteString(fmt.Sprintf("```\n%s```\n",
		championship.BuildStandingsOutput(next, standingsPreview)))
	if next.Completed {
		sb.WriteString(finishedLine(next))
	} else {
		sb.WriteString(opponentLine(next))
	}
	resp.Data.Content = truncateContent(sb.String())

	if broadcastRequested(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

func (b *champBot) champResetCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	key, err := snapshotKey(inter)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error identifying you: %v", err)
		log.Printf("discordbot.reset: %v", resp.Data.Content)
		return resp
	}
	if err := b.store.Delete(ctx, key); err != nil {
		resp.Data.Content = fmt.Sprintf("Error deleting your championship: %v",
			err)
		log.Printf("discordbot.reset: key:%v %v", key, resp.Data.Content)
		return resp
	}
	resp.Data.Content = "Your championship has been deleted."

	return resp
}

func opponentLine(s championship.State) string {
	p, ok := championship.HumanPairingForRound(s, s.CurrentRound)
	if !ok {
		return fmt.Sprintf("Round %v has not been paired yet.\n", s.CurrentRound)
	}
	opp, ok := championship.HumanOpponent(s, s.CurrentRound)
	if !ok {
		return fmt.Sprintf("Your round %v opponent is unknown.\n", s.CurrentRound)
	}
	color := "white"
	if p.SecondID == s.HumanID {
		color = "black"
	}

	return fmt.Sprintf("Round %v of %v, board %v: you play %v against %v **%v** (%v, difficulty %v/10).\n",
		s.CurrentRound, s.TotalRounds, p.Table, color, opp.Glyph, opp.Name,
		opp.Rating, opp.Difficulty)
}

func finishedLine(s championship.State) string {
	human, _ := s.Human()
	return fmt.Sprintf("The championship is over; you finished #%v of %v with %v points.",
		championship.Position(s, s.HumanID), len(s.Participants), human.Points)
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
