package repository

// schema таблицы хранилища записей. Каждая выгрузка хранится как отдельный отчет,
// position сохраняет исходный порядок строк.
const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id            BIGSERIAL PRIMARY KEY,
    repository    VARCHAR(255) NOT NULL UNIQUE,
    period_start  VARCHAR(64)  NOT NULL DEFAULT '',
    period_end    VARCHAR(64)  NOT NULL DEFAULT '',
    generated_at  VARCHAR(64)  NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS report_issues (
    report_id      BIGINT   NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    position       INTEGER  NOT NULL,
    number         INTEGER  NOT NULL,
    title          TEXT     NOT NULL,
    state          VARCHAR(16) NOT NULL,
    assignees      TEXT[]   NOT NULL DEFAULT '{}',
    created_at     DATE     NOT NULL,
    closed_at      DATE,
    comments_count INTEGER  NOT NULL DEFAULT 0,
    active_people  INTEGER  NOT NULL DEFAULT 0,
    url            TEXT     NOT NULL DEFAULT '',
    PRIMARY KEY (report_id, number)
);

CREATE TABLE IF NOT EXISTS report_users (
    report_id BIGINT       NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    position  INTEGER      NOT NULL,
    user_name VARCHAR(255) NOT NULL,
    assigned  INTEGER      NOT NULL DEFAULT 0,
    closed    INTEGER      NOT NULL DEFAULT 0,
    comments  INTEGER      NOT NULL DEFAULT 0,
    PRIMARY KEY (report_id, user_name)
);

CREATE TABLE IF NOT EXISTS report_daily (
    report_id      BIGINT  NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    day            DATE    NOT NULL,
    issues_created INTEGER NOT NULL DEFAULT 0,
    issues_closed  INTEGER NOT NULL DEFAULT 0,
    comments       INTEGER NOT NULL DEFAULT 0,
    active_users   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (report_id, day)
);

CREATE TABLE IF NOT EXISTS report_roster (
    report_id BIGINT       NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    position  INTEGER      NOT NULL,
    user_name VARCHAR(255) NOT NULL,
    PRIMARY KEY (report_id, user_name)
);
`
