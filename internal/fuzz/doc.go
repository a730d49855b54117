// Package fuzztests houses Go fuzz harnesses for the extraction pipeline
// (source -> lexer or markdown -> chunks -> reflow). They guard against
// panics on arbitrary input and check chunk invariants with testkit.
//
// Назначение: загружать байты в FileSet и прогонять их через извлечение.
//
// Не делает: запуск чекеров, запись файлов, выполнение CLI.
package fuzztests
