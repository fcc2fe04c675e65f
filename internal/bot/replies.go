package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

const (
	replyGreeting = "Halo! 👋 Saya bot pencatat keuangan pribadi Anda.\n\n" +
		"Cukup kirim transaksi dalam bahasa sehari-hari, contoh:\n" +
		"➡️ `beli kopi 25000`\n" +
		"➡️ `dapat gaji bulanan 5000000`\n\n" +
		"Anda juga bisa minta `saldo`, `ringkasan bulan ini`, atau `laporan bulan lalu`."

	replyMisunderstood = "Hmm, saya kurang paham maksudnya. Coba format seperti 'beli kopi 25000' atau minta 'saldo'."

	replyUnavailable = "Maaf, layanan AI sedang tidak bisa dihubungi. Coba lagi sebentar lagi ya."

	replyInvalidPayload = "Saya tidak bisa menangkap detail transaksinya. Coba sebutkan jumlah dan deskripsinya, misal 'beli kopi 25000'."

	replyStoreFailure = "Maaf, terjadi kesalahan saat menyimpan data. Silakan coba lagi."

	replyFetchFailure = "Maaf, terjadi kesalahan saat mengambil data. Silakan coba lagi."

	replyStale = "Catatan itu sudah tidak ada. Mungkin sudah dihapus sebelumnya."

	replyResetConfirm = "⚠️ Semua catatan transaksi Anda akan dihapus permanen. Yakin?"

	replyResetCancelled = "Oke, tidak jadi dihapus."

	replyAskCorrection = "Kirim koreksinya dalam satu pesan.\n" +
		"Misal: angka baru saja ('30000'), deskripsi baru saja, atau kalimat lengkap."

	replyCorrectionRetry = "Saya belum menangkap koreksinya. Coba kirim angka baru, deskripsi baru, atau kalimat lengkap."

	replyEditCancelled = "Edit dibatalkan, catatan tidak berubah."

	replyNoReportData = "Belum ada transaksi pada periode itu, jadi belum ada yang bisa dianalisis."

	replyReportUnavailable = "Maaf, analisis sedang tidak tersedia. Data transaksi Anda tetap aman."
)

func kindLabel(k ledger.Kind) string {
	if k == ledger.KindIncome {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

// formatRupiah renders an amount with Indonesian thousand separators.
func formatRupiah(amount decimal.Decimal) string {
	whole := amount.Round(0).BigInt().String()
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	out := "Rp" + strings.Join(groups, ".")
	if neg {
		out = "-" + out
	}
	return out
}

func confirmationText(tx *ledger.Transaction) string {
	return fmt.Sprintf("✅ Berhasil dicatat!\n\nJenis: %s\nJumlah: %s\nDeskripsi: %s\nKategori: %s",
		kindLabel(tx.Kind), formatRupiah(tx.Amount), tx.Description, tx.Category)
}

func confirmationTextWithBalance(tx *ledger.Transaction, balance decimal.Decimal) string {
	return confirmationText(tx) + "\n\nSaldo: " + formatRupiah(balance)
}

func balanceText(balance decimal.Decimal) string {
	return fmt.Sprintf("💰 Saldo Anda saat ini: %s", formatRupiah(balance))
}

func deletedText(tx *ledger.Transaction, balance decimal.Decimal) string {
	return fmt.Sprintf("🗑 Dihapus: %s (%s)\n\nSaldo: %s",
		tx.Description, formatRupiah(tx.Amount), formatRupiah(balance))
}

func resetDoneText(removed int64) string {
	return fmt.Sprintf("🧹 Selesai. %d catatan dihapus. Mulai dari nol lagi!", removed)
}

func summaryText(period ledger.Period, filter ledger.Kind, txs []ledger.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📒 Ringkasan %s\n", period.Label())

	income := decimal.Zero
	expense := decimal.Zero
	var incomeLines, expenseLines []string
	for _, tx := range txs {
		line := fmt.Sprintf("• %s — %s", tx.Description, formatRupiah(tx.Amount))
		if tx.Kind == ledger.KindIncome {
			income = income.Add(tx.Amount)
			incomeLines = append(incomeLines, line)
		} else {
			expense = expense.Add(tx.Amount)
			expenseLines = append(expenseLines, line)
		}
	}

	if len(txs) == 0 {
		b.WriteString("\nTidak ada transaksi pada periode ini.")
		return b.String()
	}

	if filter != ledger.KindExpense {
		fmt.Fprintf(&b, "\nPemasukan (%s):\n", formatRupiah(income))
		if len(incomeLines) == 0 {
			b.WriteString("• (tidak ada)\n")
		} else {
			b.WriteString(strings.Join(incomeLines, "\n") + "\n")
		}
	}
	if filter != ledger.KindIncome {
		fmt.Fprintf(&b, "\nPengeluaran (%s):\n", formatRupiah(expense))
		if len(expenseLines) == 0 {
			b.WriteString("• (tidak ada)\n")
		} else {
			b.WriteString(strings.Join(expenseLines, "\n") + "\n")
		}
	}
	if filter == "" {
		fmt.Fprintf(&b, "\nSelisih: %s", formatRupiah(income.Sub(expense)))
	}

	return b.String()
}

func reportText(analysis string, tips []string) string {
	var b strings.Builder
	b.WriteString("📊 " + analysis)
	for _, tip := range tips {
		b.WriteString("\n• " + tip)
	}
	return b.String()
}

func confirmationButtons(txID string) [][]Button {
	return [][]Button{{
		{Label: "✏️ Edit", Data: actionEdit + ":" + txID},
		{Label: "🗑 Hapus", Data: actionDelete + ":" + txID},
	}}
}

func deleteConfirmButtons(txID string) [][]Button {
	return [][]Button{{
		{Label: "✅ Ya, hapus", Data: actionConfirmDelete + ":" + txID},
		{Label: "❌ Batal", Data: actionCancelDelete + ":" + txID},
	}}
}

func resetConfirmButtons() [][]Button {
	return [][]Button{{
		{Label: "✅ Ya, hapus semua", Data: actionConfirmReset + ":yes"},
		{Label: "❌ Batal", Data: actionConfirmReset + ":no"},
	}}
}

func cancelEditButtons() [][]Button {
	return [][]Button{{
		{Label: "❌ Batalkan edit", Data: actionCancelEdit + ":-"},
	}}
}
