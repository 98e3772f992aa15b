package handler

import "github.com/reefgo/server/internal/world"

type handlerFunc func(e *Engine, a *world.Agent, cmd *Command) *world.Result

// registry maps every action verb to its handler. Arena verbs are registered
// unconditionally; the handlers themselves check the arena flag so the error
// message can say why.
func registry() map[string]handlerFunc {
	return map[string]handlerFunc{
		// World and movement.
		"look":   HandleLook,
		"move":   HandleMove,
		"travel": HandleTravel,

		// Survival loop.
		"gather": HandleGather,
		"attack": HandleAttack,
		"flee":   HandleFlee,
		"rest":   HandleRest,

		// Self inspection.
		"status":    HandleStatus,
		"inventory": HandleInventory,

		// Items and economy.
		"use":    HandleUse,
		"craft":  HandleCraft,
		"buy":    HandleBuy,
		"vault":  HandleVault,
		"trade":  HandleTrade,
		"market": HandleMarket,

		// Social.
		"say":       HandleSay,
		"broadcast": HandleBroadcast,
		"dm":        HandleDM,
		"party":     HandleParty,

		// Instanced and world content.
		"dungeon":   HandleDungeon,
		"challenge": HandleChallenge,

		// Abyss season finale.
		"contribute": HandleContribute,
		"offer":      HandleOffer,
		"abyss":      HandleAbyssStatus,

		// Arena.
		"duel":       HandleDuel,
		"strike":     HandleStrike,
		"yield":      HandleYield,
		"bet":        HandleBet,
		"tournament": HandleTournament,

		// Predictions, quests, factions, bounties.
		"predict": HandlePredict,
		"quest":   HandleQuest,
		"faction": HandleFaction,
		"bounty":  HandleBounty,
	}
}
