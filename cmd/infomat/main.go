// Infomat answers questions about long transcripts with a token-bounded
// map-reduce engine over a chat-completion model, billing each request
// against a prepaid per-user balance ledger.
//
// Usage:
//
//	# Start the ops server and maintenance jobs
//	infomat run
//
//	# Answer a question about a transcript
//	infomat answer --user 42 --file transcript.txt "What is discussed?"
//
//	# Summarize a transcript, optionally with timecodes
//	infomat summarize --user 42 --file captions.tsv --timecodes
//
//	# Inspect and manage balances
//	infomat balance --user 42
//	infomat topup --user 42 --amount 10000
//	infomat transactions --user 42
package main

func main() {
	Execute()
}
