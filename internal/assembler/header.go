package assembler

import (
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// header is section 1: module docstring and imports.
func header(c *resolver.Context) []string {
	opts := c.Options()
	l := pyemit.Lines{
		`"""Telegram bot generated by botforge."""`,
		pyemit.Comment("Bot: " + opts.DisplayName(c.ProjectName())),
		"",
		"import asyncio",
	}
	if opts.UserDatabaseEnabled {
		l.Add("import json")
	}
	l.Add(
		"import logging",
		"import os",
		"import re",
		"from datetime import datetime, timedelta",
		"",
	)
	if c.LoggingEnabled() {
		l.Add("import aiohttp")
	}
	if opts.UserDatabaseEnabled {
		l.Add("import asyncpg")
	}
	l.Add(
		"from aiogram import Bot, Dispatcher, F, types",
		"from aiogram.enums import ParseMode",
		"from aiogram.filters import Command, CommandStart",
		"from aiogram.types import InlineKeyboardButton, KeyboardButton",
		"from aiogram.utils.keyboard import InlineKeyboardBuilder, ReplyKeyboardBuilder",
	)
	return l
}

// config is section 2: constants, logging setup and the bot objects.
func config(c *resolver.Context) []string {
	opts := c.Options()
	groups := make([]int64, 0, len(opts.Groups))
	for _, g := range opts.Groups {
		groups = append(groups, g.ChatID)
	}
	return pyemit.Lines{
		pyemit.Banner("config"),
		`BOT_TOKEN = os.getenv("BOT_TOKEN")`,
		"BOT_NAME = " + pyemit.StringLiteral(opts.DisplayName(c.ProjectName())),
		"PROJECT_ID = " + pyemit.OptionalInt(opts.ProjectID),
		"ADMIN_IDS = " + pyemit.IntList(opts.AdminIDs),
		"GROUP_CHAT_IDS = " + pyemit.IntList(groups),
		"USER_DATABASE_ENABLED = " + pyemit.Bool(opts.UserDatabaseEnabled),
		"LOGGING_ENABLED = " + pyemit.Bool(c.LoggingEnabled()),
		`API_BASE_URL = os.getenv("API_BASE_URL", "http://localhost:5000")`,
		"",
		`logging.basicConfig(level=logging.INFO, format="%(asctime)s %(levelname)s %(message)s")`,
		"",
		"if not BOT_TOKEN:",
		`    raise SystemExit("BOT_TOKEN environment variable is not set")`,
		"",
		"bot = Bot(token=BOT_TOKEN)",
		"dp = Dispatcher()",
	}
}
