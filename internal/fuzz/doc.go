// Package fuzztests houses Go fuzz harnesses for the tally front end
// (source -> lexer -> parser -> sema). They guard against panics, hangs and
// broken span invariants on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер
// и проверку типов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
