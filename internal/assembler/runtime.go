package assembler

import (
	"strings"

	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/pyemit"
)

func block(src string) []string {
	return strings.Split(strings.Trim(src, "\n"), "\n")
}

const userStore = `
user_data = {}
user_state = {}
pending_inputs = {}
loaded_users = set()

VARIABLE_PATTERN = re.compile(r"\{([^{}\s]+)\}")


def replace_variables_in_text(text, variables):
    if not text or not variables:
        return text

    def substitute(match):
        value = variables.get(match.group(1))
        return match.group(0) if value is None else str(value)

    return VARIABLE_PATTERN.sub(substitute, text)


def as_selection(value):
    if value is None or value == "":
        return []
    if isinstance(value, (list, tuple)):
        return list(value)
    return [part.strip() for part in str(value).split(",") if part.strip()]
`

const memoryUsers = `
async def get_user_variables(user_id):
    return user_data.setdefault(user_id, {})


async def set_user_variable(user_id, name, value):
    variables = await get_user_variables(user_id)
    variables[name] = value


async def register_user(user):
    if user is None:
        return
    remember_user(await get_user_variables(user.id), user)


async def update_user_state(user_id, node_id):
    user_state[user_id] = node_id


async def get_all_bot_user_ids():
    return sorted(user_id for user_id in user_data if user_id not in GROUP_CHAT_IDS)
`

const databaseUsers = `
async def get_user_variables(user_id):
    variables = user_data.setdefault(user_id, {})
    if user_id not in loaded_users:
        loaded_users.add(user_id)
        stored = await load_user_data_from_db(user_id)
        for key, value in stored.items():
            variables.setdefault(key, value)
    return variables


async def set_user_variable(user_id, name, value):
    variables = await get_user_variables(user_id)
    variables[name] = value
    await update_user_data_in_db(user_id, variables)


async def register_user(user):
    if user is None:
        return
    variables = await get_user_variables(user.id)
    remember_user(variables, user)
    await save_user_to_db(user, variables)


async def update_user_state(user_id, node_id):
    user_state[user_id] = node_id
    await update_user_data_in_db(user_id, user_data.get(user_id, {}), node_id)


async def get_all_bot_user_ids():
    user_ids = set(user_data.keys())
    user_ids.update(await load_user_ids_from_db())
    user_ids.difference_update(GROUP_CHAT_IDS)
    return sorted(user_ids)
`

const userHelpers = `
def remember_user(variables, user):
    variables["user_id"] = user.id
    variables["first_name"] = user.first_name or ""
    variables["last_name"] = user.last_name or ""
    variables["username"] = user.username or ""
    variables["user_name"] = user.first_name or user.username or str(user.id)


async def set_pending_input(user_id, variable, node_id, next_node):
    pending_inputs[user_id] = {"variable": variable, "node": node_id, "next": next_node}


async def clear_pending_input(user_id):
    pending_inputs.pop(user_id, None)


def is_broadcast_allowed(user_id):
    return not ADMIN_IDS or user_id in ADMIN_IDS


async def is_chat_admin(message):
    if message.from_user is None:
        return False
    if message.from_user.id in ADMIN_IDS:
        return True
    try:
        member = await bot.get_chat_member(message.chat.id, message.from_user.id)
    except Exception as error:
        logging.warning("⚠️ Could not check admin rights: %s", error)
        return False
    return member.status in ("administrator", "creator")
`

const databaseHelpers = `
db_pool = None

CREATE_USERS_TABLE = """
CREATE TABLE IF NOT EXISTS bot_users (
    user_id BIGINT PRIMARY KEY,
    username TEXT,
    first_name TEXT,
    last_name TEXT,
    user_data JSONB NOT NULL DEFAULT '{}'::jsonb,
    current_node TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)
"""

UPSERT_USER = """
INSERT INTO bot_users (user_id, username, first_name, last_name, user_data)
VALUES ($1, $2, $3, $4, $5::jsonb)
ON CONFLICT (user_id) DO UPDATE SET
    username = EXCLUDED.username,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    updated_at = NOW()
"""

UPDATE_USER_DATA = """
UPDATE bot_users
SET user_data = $2::jsonb, current_node = COALESCE($3, current_node), updated_at = NOW()
WHERE user_id = $1
"""


async def init_database():
    global db_pool
    database_url = os.getenv("DATABASE_URL")
    if not database_url:
        logging.warning("⚠️ DATABASE_URL is not set, user data stays in memory")
        return
    try:
        db_pool = await asyncpg.create_pool(database_url, min_size=1, max_size=5)
        async with db_pool.acquire() as connection:
            await connection.execute(CREATE_USERS_TABLE)
        logging.info("✅ Database connected")
    except Exception as error:
        db_pool = None
        logging.error("❌ Database connection failed: %s", error)


async def save_user_to_db(user, variables):
    if db_pool is None:
        return
    try:
        async with db_pool.acquire() as connection:
            await connection.execute(
                UPSERT_USER,
                user.id,
                user.username,
                user.first_name,
                user.last_name,
                json.dumps(variables, default=str),
            )
    except Exception as error:
        logging.error("❌ Could not save user %s: %s", user.id, error)


async def load_user_data_from_db(user_id):
    if db_pool is None:
        return {}
    try:
        async with db_pool.acquire() as connection:
            row = await connection.fetchrow("SELECT user_data FROM bot_users WHERE user_id = $1", user_id)
    except Exception as error:
        logging.error("❌ Could not load user %s: %s", user_id, error)
        return {}
    if row is None or row["user_data"] is None:
        return {}
    stored = row["user_data"]
    return json.loads(stored) if isinstance(stored, str) else dict(stored)


async def update_user_data_in_db(user_id, variables, current_node=None):
    if db_pool is None:
        return
    try:
        async with db_pool.acquire() as connection:
            await connection.execute(UPDATE_USER_DATA, user_id, json.dumps(variables, default=str), current_node)
    except Exception as error:
        logging.error("❌ Could not update user %s: %s", user_id, error)


async def load_user_ids_from_db():
    if db_pool is None:
        return []
    try:
        async with db_pool.acquire() as connection:
            rows = await connection.fetch("SELECT user_id FROM bot_users")
    except Exception as error:
        logging.error("❌ Could not load users: %s", error)
        return []
    return [row["user_id"] for row in rows]
`

const apiLogging = `
async def save_message_to_api(user_id, message_type, message_text, node_id=None, message_data=None):
    if PROJECT_ID is None:
        return
    payload = {
        "userId": str(user_id),
        "messageType": message_type,
        "messageText": message_text or "",
        "nodeId": node_id,
        "messageData": message_data or {},
    }
    url = API_BASE_URL + "/api/projects/" + str(PROJECT_ID) + "/messages"
    try:
        async with aiohttp.ClientSession(timeout=aiohttp.ClientTimeout(total=5)) as session:
            async with session.post(url, json=payload) as response:
                if response.status >= 400:
                    logging.warning("⚠️ Message log rejected with status %s", response.status)
    except Exception as error:
        logging.warning("⚠️ Could not log message: %s", error)
`

const transitions = `
def is_ignorable_transition_error(error):
    message = str(error)
    return any(marker in message for marker in IGNORABLE_TRANSITION_ERRORS)


def make_simulated_callback(user_id, chat_id, data):
    user = types.User(id=user_id, is_bot=False, first_name=str(user_id))
    message = types.Message(
        message_id=0,
        date=datetime.now(),
        chat=types.Chat(id=chat_id, type="private"),
        from_user=user,
    )
    return types.CallbackQuery(
        id="auto_transition",
        from_user=user,
        chat_instance="auto_transition",
        data=data,
        message=message,
    )


NODE_HANDLERS = {}
NODE_VIEWS = {}


async def goto_node(node_key, user_id, chat_id):
    view = NODE_VIEWS.get(node_key)
    if view is None:
        logging.warning("⚠️ No node registered under %s", node_key)
        return False
    await view(user_id, chat_id)
    return True
`

// runtime is section 3: user store, optional database and API logging
// helpers, simulated events and the node registries.
func runtime(c *resolver.Context) []string {
	opts := c.Options()
	var l pyemit.Lines
	l.Add(pyemit.Banner("runtime", "user store"))
	l.Add(block(userStore)...)
	l.Add("", "")
	if opts.UserDatabaseEnabled {
		l.Add(pyemit.Banner("runtime", "user database"))
		l.Add(block(databaseHelpers)...)
		l.Add("", "")
		l.Add(block(databaseUsers)...)
	} else {
		l.Add(block(memoryUsers)...)
	}
	l.Add("", "")
	l.Add(block(userHelpers)...)
	if c.LoggingEnabled() {
		l.Add("", "")
		l.Add(pyemit.Banner("runtime", "message log API"))
		l.Add(block(apiLogging)...)
	}
	l.Add("", "")
	l.Add(pyemit.Banner("runtime", "auto-transitions and node registries"))
	l.Add("IGNORABLE_TRANSITION_ERRORS = (")
	for _, msg := range fragments.IgnorableTransitionErrors {
		l.Add(pyemit.Indent + pyemit.StringLiteral(msg) + ",")
	}
	l.Add(")", "", "")
	l.Add(block(transitions)...)
	return l
}
