// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	name TEXT NOT NULL,
	subject BLOB(20) NOT NULL,
	signer BLOB(20) NOT NULL,
	timestamp INTEGER NOT NULL,
	data BLOB,
	PRIMARY KEY (seq, eventIndex)
);
CREATE INDEX IF NOT EXISTS eventSubject ON event(subject);
CREATE INDEX IF NOT EXISTS eventName ON event(name);
CREATE INDEX IF NOT EXISTS eventTime ON event(timestamp);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER NOT NULL,
	transferIndex INTEGER NOT NULL,
	asset BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	PRIMARY KEY (seq, transferIndex)
);
CREATE INDEX IF NOT EXISTS transferAsset ON transfer(asset);
CREATE INDEX IF NOT EXISTS transferSender ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipient ON transfer(recipient);
`
)
