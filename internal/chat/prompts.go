package chat

import (
	"encoding/json"
	"fmt"

	"github.com/askbase/askbase/internal/llm"
)

const analystSystemContent = "You are a data analyst. You help the user get information about the database."

const resultSystemContent = "Consider yourself as a helpful data analyst. You help the user get information about the data and answer their question."

func decisionPrompt(turn Turn) string {
	return fmt.Sprintf(`User's query: %s
Chat history: %s

Based on the user's query and the provided chat history, determine if accessing the Learning Management System (LMS) database is necessary to answer the query. Factors to consider include whether the query explicitly or implicitly involves retrieving or verifying data stored in the LMS database (e.g., course content, user progress, enrollment, etc.). If the information can be answered without referencing the LMS database, respond accordingly.

Provide your output in the following JSON format:

`+"```json"+`
{
    "needsDatabase": "yes/no"
}
`+"```", turn.Query, historyJSON(turn.Messages))
}

func narrowingPrompt(turn Turn, tableList string) string {
	return fmt.Sprintf(`The database contains the following tables:
%s

User's query: %s
Chat history: %s

List the tables that are relevant for answering the user's query. Reply with the table names only, separated by commas, with no explanation. If none of the tables are relevant, reply with an empty line.`, tableList, turn.Query, historyJSON(turn.Messages))
}

func clarificationPrompt(turn Turn) string {
	history := turn.Messages
	if len(history) > 0 {
		history = history[:len(history)-1]
	}
	return fmt.Sprintf("Consider yourself as a helpful data analyst. A user has asked a question: %s, in the context of the following chat history: %s, politely reply that you don't have the answer for the question or ask a follow up question to better understand the query.", turn.Query, historyJSON(history))
}

func resultMessages(payload string, queryText string) []llm.Message {
	return []llm.Message{
		{Role: RoleSystem, Content: resultSystemContent},
		{Role: RoleUser, Content: fmt.Sprintf(`Use the following SQL data to answer the user's query: %s,
keep the response short and concise and never mention any id column of the SQL data. SQL data: %s`, queryText, payload)},
	}
}

func historyJSON(messages []Message) string {
	encoded, err := json.Marshal(messages)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
